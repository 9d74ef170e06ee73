package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
)

// PostDetail — модальное окно поста: запись и панель комментариев.
type PostDetail struct {
	Post  models.Post `json:"post"`
	Panel Panel       `json:"panel"`
}

// OpenPost загружает первую страницу комментариев, затем сам пост.
// Ошибка загрузки комментариев не мешает показать пост: она уходит в панель.
func (s *Service) OpenPost(ctx context.Context, postID string) (PostDetail, error) {
	const op = "service/posts/OpenPost"

	if strings.TrimSpace(postID) == "" {
		return PostDetail{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	panel, perr := s.LoadPage(ctx, postID, 1, false)
	if perr != nil {
		log.From(ctx).Warn("post comments failed", slog.String("op", op), slog.String("err", perr.Error()))
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return PostDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	post, embedded, err := s.api.GetPost(ctx, sess.Token, postID)
	if err != nil {
		return PostDetail{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if perr != nil && len(embedded) > 0 {
		s.seedComments(map[string][]models.Comment{postID: embedded})
		panel, _ = s.LoadPage(ctx, postID, 1, false)
	}

	if s.comments.Has(postID) {
		post.CommentsCount = s.comments.Len(postID)
	}

	return PostDetail{Post: post, Panel: panel}, nil
}

// UpdatePost редактирует пост. Локальные списки меняются только после успеха;
// если backend не вернул запись, локально подменяется текст.
func (s *Service) UpdatePost(ctx context.Context, postID string, in models.NewPost) (models.Post, error) {
	const op = "service/posts/UpdatePost"

	in.Body = strings.TrimSpace(in.Body)
	if strings.TrimSpace(postID) == "" || (in.Body == "" && in.Image == nil) {
		return models.Post{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.api.UpdatePost(ctx, sess.Token, postID, in)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if updated != nil {
		s.replacePostLocked(postID, *updated)
		return *updated, nil
	}

	out := models.Post{ID: postID, Body: in.Body, State: models.StateConfirmed}
	for _, list := range [][]models.Post{s.feed.posts, s.mine.posts} {
		for i := range list {
			if list[i].ID == postID {
				list[i].Body = in.Body
				out = list[i]
			}
		}
	}

	return out, nil
}

// DeletePost удаляет пост и всё клиентское состояние по нему.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	const op = "service/posts/DeletePost"

	if strings.TrimSpace(postID) == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.api.DeletePost(ctx, sess.Token, postID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	s.dropPost(postID)
	s.comments.Forget(postID)

	s.mu.Lock()
	delete(s.panels, postID)
	s.mu.Unlock()

	return nil
}

type myPostsState struct {
	loaded   bool
	nextPage int
	hasMore  bool
	posts    []models.Post
}

// MyPosts — накопленный список постов текущего пользователя.
type MyPosts struct {
	Posts   []models.Post `json:"posts"`
	Page    int           `json:"page"`
	HasMore bool          `json:"has_more"`
}

// LoadMyPosts догружает следующую порцию (reset — начать с первой).
// Если backend не принимает page=, запрос повторяется со skip=.
func (s *Service) LoadMyPosts(ctx context.Context, reset bool) (MyPosts, error) {
	const op = "service/posts/LoadMyPosts"

	sess, err := s.auth(ctx)
	if err != nil {
		return MyPosts{}, fmt.Errorf("%s: %w", op, err)
	}

	userID := sess.UserID()
	if userID == "" {
		me, err := s.Me(ctx)
		if err != nil {
			return MyPosts{}, fmt.Errorf("%s: %w", op, err)
		}
		userID = me.ID
	}

	s.mu.Lock()
	if reset || !s.mine.loaded {
		s.mine = myPostsState{nextPage: 1, hasMore: true}
	}
	if !s.mine.hasMore {
		out := s.myPostsLocked()
		s.mu.Unlock()
		return out, nil
	}
	page := s.mine.nextPage
	s.mu.Unlock()

	limit := s.opts.MyPostsLimit
	q := backend.Paging{Page: page, Limit: limit}

	list, err := s.api.UserPosts(ctx, sess.Token, userID, q)
	if err != nil && !errors.Is(err, backend.ErrUnauthenticated) {
		log.From(ctx).Debug("page query rejected, retrying with skip", slog.String("op", op), slog.String("err", err.Error()))

		q.BySkip = true
		list, err = s.api.UserPosts(ctx, sess.Token, userID, q)
	}
	if err != nil {
		return MyPosts{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	s.seedComments(list.Comments)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Пока шёл запрос, могли сделать reset или загрузить ту же страницу.
	if s.mine.nextPage != page {
		return s.myPostsLocked(), nil
	}

	s.mine.loaded = true
	s.mine.posts = dedupePosts(append(s.mine.posts, list.Posts...))
	s.mine.hasMore = len(list.Posts) == limit
	s.mine.nextPage = page + 1
	s.reconcileLocked(s.mine.posts)

	return s.myPostsLocked(), nil
}

func (s *Service) myPostsLocked() MyPosts {
	return MyPosts{
		Posts:   slices.Clone(s.mine.posts),
		Page:    max(s.mine.nextPage-1, 0),
		HasMore: s.mine.hasMore,
	}
}
