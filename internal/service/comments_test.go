package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/models"
)

func TestLoadPage_FetchesOnceThenSlicesFromCache(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 12), nil).Times(1)

	p, err := s.LoadPage(ctx, "p1", 3, false)
	require.NoError(t, err)
	require.Equal(t, []string{"c11", "c12"}, commentIDs(p.Comments))
	require.False(t, p.HasMore)
	require.Equal(t, 12, p.Total)
	require.True(t, p.Opened)
	require.NotNil(t, p.Preview)
	require.Equal(t, "c1", p.Preview.ID)

	again, err := s.LoadPage(ctx, "p1", 3, false)
	require.NoError(t, err)
	require.Equal(t, p, again, "same cache, same slice")

	first, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, commentIDs(first.Comments))
	require.True(t, first.HasMore)
}

func TestLoadPage_AppendKeepsShownComments(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 12), nil)

	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	p, err := s.LoadPage(ctx, "p1", 2, true)
	require.NoError(t, err)
	require.Len(t, p.Comments, 10)
	require.Equal(t, "c1", p.Comments[0].ID)
	require.Equal(t, "c10", p.Comments[9].ID)
	require.True(t, p.HasMore)

	p, err = s.LoadPage(ctx, "p1", 3, true)
	require.NoError(t, err)
	require.Len(t, p.Comments, 12)
	require.False(t, p.HasMore)
}

func TestLoadPage_BackendFailureBecomesPanelError(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").
		Return(nil, fmt.Errorf("x: %w", backend.ErrDecode))

	p, err := s.LoadPage(context.Background(), "p1", 1, false)
	require.ErrorIs(t, err, ErrBadResponse)
	require.Equal(t, "Something went wrong. Please try again.", p.Error)
	require.False(t, p.Loading)
	require.False(t, s.comments.Has("p1"))
}

func TestSubmitComment_Success_ReplacesPending(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 2), nil)
	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	s.SetDraft("p1", "  hello  ")

	api.EXPECT().CreateComment(gomock.Any(), testToken, "p1", "hello").
		DoAndReturn(func(context.Context, string, string, string) (*models.Comment, error) {
			// Пока запрос в полёте: pending наверху, повторная отправка отклоняется.
			p := s.Panel("p1")
			require.True(t, p.Posting)
			require.Equal(t, "local-1", p.Comments[0].ID)
			require.True(t, p.Comments[0].Pending())
			require.Equal(t, "Ann", p.Comments[0].AuthorName)
			require.Equal(t, "u1", p.Comments[0].AuthorID)

			_, err := s.SubmitComment(context.Background(), "p1", "again")
			require.ErrorIs(t, err, ErrBusy)

			c := comment("c9", "p1", "u1", 0)
			c.Text = "hello"
			return &c, nil
		})

	p, err := s.SubmitComment(ctx, "p1", "")
	require.NoError(t, err)
	require.False(t, p.Posting)
	require.Empty(t, p.Input)
	require.Empty(t, p.Error)

	list, _ := s.comments.Get("p1")
	var withText int
	for _, c := range list {
		require.False(t, c.Pending())
		if c.Text == "hello" {
			withText++
		}
	}
	require.Equal(t, 1, withText)
	require.Equal(t, []string{"c9", "c1", "c2"}, commentIDs(p.Comments))
	require.Equal(t, 3, p.Total)
}

func TestSubmitComment_ConfirmedWithoutEntity_Refetches(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	fresh := append([]models.Comment{comment("c0", "p1", "u1", 0)}, comments("p1", 2)...)

	gomock.InOrder(
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 2), nil),
		api.EXPECT().CreateComment(gomock.Any(), testToken, "p1", "hi").Return(nil, nil),
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(fresh, nil),
	)

	// Список не загружен: сначала подтягивается, затем вставляется pending.
	p, err := s.SubmitComment(ctx, "p1", "hi")
	require.NoError(t, err)
	require.Equal(t, []string{"c0", "c1", "c2"}, commentIDs(p.Comments))
	for _, c := range p.Comments {
		require.False(t, c.Pending())
	}
}

func TestSubmitComment_Failure_RemovesPendingAndResyncs(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	gomock.InOrder(
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 2), nil),
		api.EXPECT().CreateComment(gomock.Any(), testToken, "p1", "hi").
			Return(nil, fmt.Errorf("x: %w", backend.ErrUnavailable)),
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 3), nil),
	)

	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	p, err := s.SubmitComment(ctx, "p1", "hi")
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotEmpty(t, p.Error)
	require.Equal(t, "hi", p.Input, "text kept for retry")
	require.False(t, p.Posting)

	list, _ := s.comments.Get("p1")
	require.Equal(t, []string{"c1", "c2", "c3"}, commentIDs(list), "only server-confirmed comments")
}

func TestSubmitComment_ListReloadedWhileInFlight(t *testing.T) {
	confirmed := comment("c9", "p1", "u1", 0)
	confirmed.Text = "hi"

	tests := []struct {
		name string
		// during выполняется, пока CreateComment в полёте.
		during func(t *testing.T, s *Service)
		// fetches — ответы ListComments по порядку.
		fetches [][]models.Comment
	}{
		{
			name: "refresh",
			during: func(t *testing.T, s *Service) {
				_, err := s.RefreshComments(context.Background(), "p1", 1)
				require.NoError(t, err)
			},
			fetches: [][]models.Comment{comments("p1", 2), comments("p1", 2)},
		},
		{
			name:    "reset",
			during:  func(_ *testing.T, s *Service) { s.Reset() },
			fetches: [][]models.Comment{comments("p1", 2), append([]models.Comment{confirmed}, comments("p1", 2)...)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, _ := newServiceWithMocks(t)
			ctx := context.Background()

			calls := make([]*gomock.Call, 0, len(tt.fetches))
			for _, list := range tt.fetches {
				calls = append(calls, api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(list, nil))
			}
			gomock.InOrder(calls...)

			_, err := s.LoadPage(ctx, "p1", 1, false)
			require.NoError(t, err)

			api.EXPECT().CreateComment(gomock.Any(), testToken, "p1", "hi").
				DoAndReturn(func(context.Context, string, string, string) (*models.Comment, error) {
					tt.during(t, s)

					c := confirmed
					return &c, nil
				})

			p, err := s.SubmitComment(ctx, "p1", "hi")
			require.NoError(t, err)
			require.Empty(t, p.Error)

			list, ok := s.comments.Get("p1")
			require.True(t, ok)
			require.Equal(t, []string{"c9", "c1", "c2"}, commentIDs(list))

			var withText int
			for _, c := range list {
				require.False(t, c.Pending())
				if c.Text == "hi" {
					withText++
				}
			}
			require.Equal(t, 1, withText)
		})
	}
}

func TestSubmitComment_EmptyText(t *testing.T) {
	s, _, _ := newServiceWithMocks(t)

	_, err := s.SubmitComment(context.Background(), "p1", "   ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	var ie *InputError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "comment text is empty", ie.Msg)

	_, err = s.SubmitComment(context.Background(), "", "x")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEditFlow(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	own := comment("c1", "p1", "u1", 1)
	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").
		Return([]models.Comment{own, comment("c2", "p1", "u2", 2)}, nil)
	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	// Чужой комментарий не редактируется.
	_, err = s.StartEdit(ctx, "p1", "c2")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = s.StartEdit(ctx, "p1", "missing")
	require.ErrorIs(t, err, ErrNotFound)

	p, err := s.StartEdit(ctx, "p1", "c1")
	require.NoError(t, err)
	require.Equal(t, "c1", p.EditingID)
	require.Equal(t, own.Text, p.Input)

	// Неудача: текст в кэше прежний, черновик правки сохранён.
	api.EXPECT().UpdateComment(gomock.Any(), testToken, "c1", "edited").
		Return(nil, &backend.StatusError{Status: http.StatusInternalServerError})
	p, err = s.SubmitComment(ctx, "p1", "edited")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, "c1", p.EditingID)
	require.Equal(t, "edited", p.Input)
	require.False(t, p.SavingEdit)
	cm, _ := s.comments.Find("p1", "c1")
	require.Equal(t, own.Text, cm.Text)

	// Повтор из буфера: успех меняет текст.
	api.EXPECT().UpdateComment(gomock.Any(), testToken, "c1", "edited").Return(nil, nil)
	p, err = s.SubmitComment(ctx, "p1", "")
	require.NoError(t, err)
	require.Empty(t, p.EditingID)
	require.Empty(t, p.Input)
	cm, _ = s.comments.Find("p1", "c1")
	require.Equal(t, "edited", cm.Text)
	require.Equal(t, "edited", p.Comments[0].Text)
}

func TestCancelEdit(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").
		Return([]models.Comment{comment("c1", "p1", "u1", 1)}, nil)
	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	_, err = s.StartEdit(ctx, "p1", "c1")
	require.NoError(t, err)

	p := s.CancelEdit("p1")
	require.Empty(t, p.EditingID)
	require.Empty(t, p.Input)
}

func TestDeleteComment_PendingIsLocalOnly(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 2), nil)
	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	s.comments.Insert("p1", models.Comment{ID: "local-7", PostID: "p1", Text: "x", State: models.StatePending})

	// Ожиданий DeleteComment нет: любой сетевой вызов провалит тест.
	p, err := s.DeleteComment(ctx, "p1", "local-7")
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2"}, commentIDs(p.Comments))
	_, ok := s.comments.Find("p1", "local-7")
	require.False(t, ok)
}

func TestDeleteComment_ErrorsLeaveCacheUntouched(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    error
		panel   string
	}{
		{"403", http.StatusForbidden, "", ErrPermissionDenied, "You can only delete your own comments."},
		{"403_backend_message", http.StatusForbidden, "insufficient permission", ErrPermissionDenied, "insufficient permission"},
		{"404", http.StatusNotFound, "", ErrNotFound, "Comment not found."},
		{"401", http.StatusUnauthorized, "", ErrUnauthenticated, "Unauthorized. Please log in again."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s, api, _ := newServiceWithMocks(t)
			ctx := context.Background()

			api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 3), nil)
			_, err := s.LoadPage(ctx, "p1", 1, false)
			require.NoError(t, err)
			before, _ := s.comments.Get("p1")

			api.EXPECT().DeleteComment(gomock.Any(), testToken, "c2").
				Return(&backend.StatusError{Status: tt.status, Message: tt.message})

			p, err := s.DeleteComment(ctx, "p1", "c2")
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, tt.panel, p.Error)

			after, _ := s.comments.Get("p1")
			require.Equal(t, before, after)
		})
	}
}

func TestDeleteComment_Success_SyncsCountAndPage(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	p1 := post("p1", 1)
	p1.CommentsCount = 6
	api.EXPECT().ListPosts(gomock.Any(), testToken, 1, 6).
		Return(models.PostList{Posts: []models.Post{p1}}, nil)
	_, err := s.ListFeed(ctx, 1)
	require.NoError(t, err)

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 6), nil)
	p, err := s.LoadPage(ctx, "p1", 2, false)
	require.NoError(t, err)
	require.Equal(t, []string{"c6"}, commentIDs(p.Comments))

	api.EXPECT().DeleteComment(gomock.Any(), testToken, "c6").Return(nil)
	p, err = s.DeleteComment(ctx, "p1", "c6")
	require.NoError(t, err)
	require.Equal(t, 1, p.Page, "empty last page falls back")
	require.Len(t, p.Comments, 5)
	require.Equal(t, 5, s.Feed().Posts[0].CommentsCount)
}

func TestRefreshComments_AlwaysFetches(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)
	ctx := context.Background()

	gomock.InOrder(
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 1), nil),
		api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 4), nil),
	)

	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	p, err := s.RefreshComments(ctx, "p1", 1)
	require.NoError(t, err)
	require.Equal(t, 4, p.Total)
}
