package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// SignIn — POST /users/signin. Пользователь в ответе может отсутствовать.
func (c *Client) SignIn(ctx context.Context, in models.Credentials) (string, *models.User, error) {
	const op = "backend/users/SignIn"

	req, err := jsonRequest(http.MethodPost, "/users/signin", in)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	var out signInResponse
	if err := c.do(ctx, req, &out); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if out.User == nil {
		return out.Token, nil, nil
	}

	u := out.User.toModel()
	return out.Token, &u, nil
}

// SignUp — POST /users/signup.
func (c *Client) SignUp(ctx context.Context, in models.SignUp) error {
	const op = "backend/users/SignUp"

	req, err := jsonRequest(http.MethodPost, "/users/signup", in)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.do(ctx, req, &messageResponse{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Profile — GET /users/profile-data.
func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	const op = "backend/users/Profile"

	var out profileResponse
	req := request{method: http.MethodGet, path: "/users/profile-data", token: token}
	if err := c.do(ctx, req, &out); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return out.User.toModel(), nil
}

// UploadPhoto — PUT /users/upload-photo, multipart поле photo.
func (c *Client) UploadPhoto(ctx context.Context, token string, photo models.Upload) error {
	const op = "backend/users/UploadPhoto"

	f := newForm()
	if err := f.file("photo", photo); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := f.request(http.MethodPut, "/users/upload-photo", token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.do(ctx, req, &messageResponse{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ChangePassword — PATCH /users/change-password. Возвращает новый токен, если backend его выдал.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) (string, error) {
	const op = "backend/users/ChangePassword"

	req, err := jsonRequest(http.MethodPatch, "/users/change-password", map[string]string{
		"password":    current,
		"newPassword": next,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.token = token

	var out messageResponse
	if err := c.do(ctx, req, &out); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return out.Token, nil
}
