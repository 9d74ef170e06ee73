package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/linked-feed/internal/service"
)

func TestQueryInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target  string
		want    int
		wantErr bool
	}{
		{"/feed", 1, false},
		{"/feed?page=3", 3, false},
		{"/feed?page=0", 0, false},
		{"/feed?page=-1", 0, true},
		{"/feed?page=x", 0, true},
	}

	for _, tt := range tests {
		got, err := queryInt(httptest.NewRequest(http.MethodGet, tt.target, nil), "page", 1)
		if tt.wantErr {
			require.ErrorIs(t, err, service.ErrInvalidArgument, tt.target)
			continue
		}
		require.NoError(t, err, tt.target)
		require.Equal(t, tt.want, got, tt.target)
	}
}

func TestQueryBool(t *testing.T) {
	t.Parallel()

	for target, want := range map[string]bool{
		"/my/posts":            false,
		"/my/posts?reset=1":    true,
		"/my/posts?reset=true": true,
		"/my/posts?reset=0":    false,
	} {
		require.Equal(t, want, queryBool(httptest.NewRequest(http.MethodGet, target, nil), "reset"), target)
	}
}

func TestParsePostForm_JSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/posts/p1", strings.NewReader(`{"body":"edited"}`))
	req.Header.Set("Content-Type", "application/json")

	in, err := parsePostForm(req)
	require.NoError(t, err)
	require.Equal(t, "edited", in.Body)
	require.Nil(t, in.Image)

	req = httptest.NewRequest(http.MethodPut, "/posts/p1", strings.NewReader(`{"text":"x"}`))
	_, err = parsePostForm(req)

	var ie *service.InputError
	require.True(t, errors.As(err, &ie))
}

func TestParsePostForm_MultipartImage(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n0000")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("body", "with image"))
	fw, err := mw.CreateFormFile("image", "a.png") // application/octet-stream
	require.NoError(t, err)
	_, err = fw.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/feed/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := parsePostForm(req)
	require.NoError(t, err)
	require.Equal(t, "with image", in.Body)
	require.NotNil(t, in.Image)
	require.Equal(t, "a.png", in.Image.Filename)
	require.Equal(t, "image/png", in.Image.ContentType)
	require.Equal(t, png, in.Image.Data)
}
