package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// ListComments — GET /posts/{id}/comments. Порядок — как прислал backend.
func (c *Client) ListComments(ctx context.Context, token, postID string) ([]models.Comment, error) {
	const op = "backend/comments/ListComments"

	var out requireComments
	req := request{
		method: http.MethodGet,
		path:   "/posts/" + url.PathEscape(postID) + "/comments",
		token:  token,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments(out.Comments, postID), nil
}

// CreateComment — POST /comments {content, post}.
// nil без ошибки — комментарий создан, но запись не вернулась.
func (c *Client) CreateComment(ctx context.Context, token, postID, text string) (*models.Comment, error) {
	const op = "backend/comments/CreateComment"

	req, err := jsonRequest(http.MethodPost, "/comments", map[string]string{
		"content": text,
		"post":    postID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.token = token

	var out commentsResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return confirmedComment(out.Comment, postID), nil
}

// UpdateComment — PUT /comments/{id} {content}.
func (c *Client) UpdateComment(ctx context.Context, token, commentID, text string) (*models.Comment, error) {
	const op = "backend/comments/UpdateComment"

	req, err := jsonRequest(http.MethodPut, "/comments/"+url.PathEscape(commentID), map[string]string{
		"content": text,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.token = token

	var out commentsResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return confirmedComment(out.Comment, ""), nil
}

// DeleteComment — DELETE /comments/{id}.
func (c *Client) DeleteComment(ctx context.Context, token, commentID string) error {
	const op = "backend/comments/DeleteComment"

	req := request{method: http.MethodDelete, path: "/comments/" + url.PathEscape(commentID), token: token}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func confirmedComment(c *wireComment, postID string) *models.Comment {
	if c == nil || c.ID == "" {
		return nil
	}

	m := c.toModel(postID)
	return &m
}
