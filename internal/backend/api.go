package backend

import (
	"context"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// API — операции backend, которыми пользуется сервисный слой.
// token передаётся явно: его владелец — session.Manager.
type API interface {
	SignIn(ctx context.Context, in models.Credentials) (string, *models.User, error)
	SignUp(ctx context.Context, in models.SignUp) error
	Profile(ctx context.Context, token string) (models.User, error)
	UploadPhoto(ctx context.Context, token string, photo models.Upload) error
	ChangePassword(ctx context.Context, token, current, next string) (string, error)

	ListPosts(ctx context.Context, token string, page, limit int) (models.PostList, error)
	UserPosts(ctx context.Context, token, userID string, q Paging) (models.PostList, error)
	GetPost(ctx context.Context, token, postID string) (models.Post, []models.Comment, error)
	CreatePost(ctx context.Context, token string, in models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, token, postID string, in models.NewPost) (*models.Post, error)
	DeletePost(ctx context.Context, token, postID string) error

	ListComments(ctx context.Context, token, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, token, postID, text string) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, commentID, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, commentID string) error
}

// Paging — параметры списка постов пользователя.
// BySkip: вместо page= отправляется skip=(Page-1)*Limit.
type Paging struct {
	Page   int
	Limit  int
	BySkip bool
}
