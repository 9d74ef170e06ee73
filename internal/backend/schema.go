package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// Схемы ответов backend. Каждый эндпоинт декодируется ровно в одну из них;
// check проверяет обязательные поля, иначе ErrDecode.

type response interface {
	check() error
}

type wireUser struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Gender      string    `json:"gender"`
	DateOfBirth string    `json:"dateOfBirth"`
	Photo       string    `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
}

type wireComment struct {
	ID             string    `json:"_id"`
	Content        string    `json:"content"`
	CommentCreator *wireUser `json:"commentCreator"`
	Post           string    `json:"post"`
	CreatedAt      time.Time `json:"createdAt"`
}

type wirePost struct {
	ID        string        `json:"_id"`
	Body      string        `json:"body"`
	Image     string        `json:"image"`
	User      *wireUser     `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Comments  []wireComment `json:"comments"`
}

type wirePagination struct {
	CurrentPage   int `json:"currentPage"`
	NumberOfPages int `json:"numberOfPages"`
	Limit         int `json:"limit"`
	NextPage      int `json:"nextPage"`
	Total         int `json:"total"`
}

// errorBody — тело неуспешного ответа.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}

	return b.Error
}

// GET /posts, GET /users/{id}/posts.
type listPostsResponse struct {
	Message        string          `json:"message"`
	PaginationInfo *wirePagination `json:"paginationInfo"`
	Posts          []wirePost      `json:"posts"`
}

func (r *listPostsResponse) check() error {
	if r.Posts == nil {
		return missing("posts")
	}

	return nil
}

// GET/PUT /posts/{id}, POST /posts. На запись post может отсутствовать.
type postResponse struct {
	Message string    `json:"message"`
	Post    *wirePost `json:"post"`
}

func (r *postResponse) check() error { return nil }

type requirePost struct{ postResponse }

func (r *requirePost) check() error {
	if r.Post == nil {
		return missing("post")
	}

	return nil
}

// GET /posts/{id}/comments, POST/PUT /comments.
type commentsResponse struct {
	Message  string        `json:"message"`
	Comments []wireComment `json:"comments"`
	Comment  *wireComment  `json:"comment"`
}

func (r *commentsResponse) check() error { return nil }

type requireComments struct{ commentsResponse }

func (r *requireComments) check() error {
	if r.Comments == nil {
		return missing("comments")
	}

	return nil
}

// POST /users/signin.
type signInResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    *wireUser `json:"user"`
}

func (r *signInResponse) check() error {
	if r.Token == "" {
		return missing("token")
	}

	return nil
}

// GET /users/profile-data.
type profileResponse struct {
	Message string    `json:"message"`
	User    *wireUser `json:"user"`
}

func (r *profileResponse) check() error {
	if r.User == nil {
		return missing("user")
	}

	return nil
}

// POST /users/signup, PUT /users/upload-photo, PATCH /users/change-password, DELETE.
type messageResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (r *messageResponse) check() error { return nil }

func missing(field string) error {
	return fmt.Errorf("%w: missing %q", ErrDecode, field)
}

func (u *wireUser) toModel() models.User {
	if u == nil {
		return models.User{}
	}

	return models.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
		Photo:       u.Photo,
		CreatedAt:   u.CreatedAt,
	}
}

// authorName — имя автора; без пользователя подставляется fallback.
func authorName(u *wireUser, fallback string) string {
	if u == nil {
		return fallback
	}

	if name := u.toModel().DisplayName(); strings.TrimSpace(name) != "" {
		return name
	}

	return fallback
}

func (c wireComment) toModel(postID string) models.Comment {
	if c.Post != "" {
		postID = c.Post
	}

	out := models.Comment{
		ID:         c.ID,
		PostID:     postID,
		AuthorName: authorName(c.CommentCreator, "Anonymous"),
		Text:       c.Content,
		CreatedAt:  c.CreatedAt,
		State:      models.StateConfirmed,
	}
	if c.CommentCreator != nil {
		out.AuthorID = c.CommentCreator.ID
		out.AuthorAvatar = c.CommentCreator.Photo
	}

	return out
}

func (p wirePost) toModel() models.Post {
	out := models.Post{
		ID:            p.ID,
		AuthorName:    authorName(p.User, "Unknown"),
		Body:          p.Body,
		Image:         p.Image,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CommentsCount: len(p.Comments),
		State:         models.StateConfirmed,
	}
	if p.User != nil {
		out.AuthorID = p.User.ID
		out.AuthorAvatar = p.User.Photo
	}

	return out
}

// comments — записи без id отбрасываются.
func comments(in []wireComment, postID string) []models.Comment {
	out := make([]models.Comment, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			continue
		}
		out = append(out, c.toModel(postID))
	}

	return out
}

func (r *listPostsResponse) toModel() models.PostList {
	out := models.PostList{
		Posts:    make([]models.Post, 0, len(r.Posts)),
		Comments: make(map[string][]models.Comment),
	}

	for _, p := range r.Posts {
		if p.ID == "" {
			continue
		}

		out.Posts = append(out.Posts, p.toModel())
		if len(p.Comments) > 0 {
			out.Comments[p.ID] = comments(p.Comments, p.ID)
		}
	}

	if pi := r.PaginationInfo; pi != nil {
		out.Pagination = &models.Pagination{
			CurrentPage:   pi.CurrentPage,
			NumberOfPages: pi.NumberOfPages,
			Limit:         pi.Limit,
			NextPage:      pi.NextPage,
			Total:         pi.Total,
		}
	}

	return out
}
