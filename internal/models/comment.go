package models

import "time"

// Comment — плоская запись комментария.
type Comment struct {
	ID           string    `json:"id"`
	PostID       string    `json:"post_id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	State        State     `json:"state"`
}

// Pending — комментарий ещё не подтверждён сервером.
func (c Comment) Pending() bool { return c.State == StatePending }

// CommentPage — срез кэша комментариев поста для панели.
type CommentPage struct {
	PostID   string    `json:"post_id"`
	Comments []Comment `json:"comments"`
	Page     int       `json:"page"`
	HasMore  bool      `json:"has_more"`
	Total    int       `json:"total"`
}
