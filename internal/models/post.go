package models

import "time"

// Post — плоская запись поста после декодирования ответа backend.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	AuthorAvatar  string    `json:"author_avatar,omitempty"`
	Body          string    `json:"body"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
	CommentsCount int       `json:"comments_count"`
	State         State     `json:"state"`
}

// Pending — пост ещё не подтверждён сервером (ID локальный).
func (p Post) Pending() bool { return p.State == StatePending }

// SortTime — время для сортировки ленты: createdAt, иначе updatedAt.
func (p Post) SortTime() time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}

	return p.UpdatedAt
}

// PostPage — одна страница ленты в том виде, в котором её видит view.
type PostPage struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	HasMore    bool   `json:"has_more"`
}

// PostList — результат списочного запроса к backend.
// Pagination == nil, если backend не прислал метаданные.
type PostList struct {
	Posts      []Post
	Pagination *Pagination
	// Comments — встроенные в посты комментарии (post_id -> newest first).
	Comments map[string][]Comment
}

// Pagination — метаданные пагинации, если backend их прислал.
type Pagination struct {
	CurrentPage   int `json:"current_page"`
	NumberOfPages int `json:"number_of_pages"`
	Limit         int `json:"limit"`
	NextPage      int `json:"next_page,omitempty"`
	Total         int `json:"total,omitempty"`
}

// NewPost — данные composer для создания/редактирования поста.
type NewPost struct {
	Body  string
	Image *Upload
}

// Upload — файл из multipart-формы.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
