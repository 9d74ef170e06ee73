package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// ListPosts — GET /posts?page=N&limit=L.
func (c *Client) ListPosts(ctx context.Context, token string, page, limit int) (models.PostList, error) {
	const op = "backend/posts/ListPosts"

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out listPostsResponse
	req := request{method: http.MethodGet, path: "/posts", query: q, token: token}
	if err := c.do(ctx, req, &out); err != nil {
		return models.PostList{}, fmt.Errorf("%s: %w", op, err)
	}

	return out.toModel(), nil
}

// UserPosts — GET /users/{id}/posts?limit=L&page=N (или skip=).
func (c *Client) UserPosts(ctx context.Context, token, userID string, p Paging) (models.PostList, error) {
	const op = "backend/posts/UserPosts"

	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.BySkip {
		q.Set("skip", strconv.Itoa((max(p.Page, 1)-1)*p.Limit))
	} else {
		q.Set("page", strconv.Itoa(p.Page))
	}

	var out listPostsResponse
	req := request{
		method: http.MethodGet,
		path:   "/users/" + url.PathEscape(userID) + "/posts",
		query:  q,
		token:  token,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return models.PostList{}, fmt.Errorf("%s: %w", op, err)
	}

	return out.toModel(), nil
}

// GetPost — GET /posts/{id} вместе со встроенными комментариями.
func (c *Client) GetPost(ctx context.Context, token, postID string) (models.Post, []models.Comment, error) {
	const op = "backend/posts/GetPost"

	var out requirePost
	req := request{method: http.MethodGet, path: "/posts/" + url.PathEscape(postID), token: token}
	if err := c.do(ctx, req, &out); err != nil {
		return models.Post{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Post.toModel(), comments(out.Post.Comments, out.Post.ID), nil
}

// CreatePost — POST /posts, multipart body + image.
// nil без ошибки — backend подтвердил, но не вернул запись.
func (c *Client) CreatePost(ctx context.Context, token string, in models.NewPost) (*models.Post, error) {
	const op = "backend/posts/CreatePost"

	req, err := postForm(http.MethodPost, "/posts", token, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out postResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return confirmedPost(out.Post), nil
}

// UpdatePost — PUT /posts/{id}, multipart.
func (c *Client) UpdatePost(ctx context.Context, token, postID string, in models.NewPost) (*models.Post, error) {
	const op = "backend/posts/UpdatePost"

	req, err := postForm(http.MethodPut, "/posts/"+url.PathEscape(postID), token, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var out postResponse
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return confirmedPost(out.Post), nil
}

// DeletePost — DELETE /posts/{id}.
func (c *Client) DeletePost(ctx context.Context, token, postID string) error {
	const op = "backend/posts/DeletePost"

	req := request{method: http.MethodDelete, path: "/posts/" + url.PathEscape(postID), token: token}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// postForm — backend не принимает пустой body, поэтому при одной картинке отправляется ".".
func postForm(method, path, token string, in models.NewPost) (request, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" && in.Image != nil {
		body = "."
	}

	f := newForm()
	if err := f.field("body", body); err != nil {
		return request{}, err
	}
	if in.Image != nil {
		if err := f.file("image", *in.Image); err != nil {
			return request{}, err
		}
	}

	return f.request(method, path, token)
}

func confirmedPost(p *wirePost) *models.Post {
	if p == nil || p.ID == "" {
		return nil
	}

	m := p.toModel()
	return &m
}
