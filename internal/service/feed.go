package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/storage"
)

type feedState struct {
	page       int
	totalPages int
	posts      []models.Post
}

// ListFeed загружает страницу ленты.
//
// Число страниц: numberOfPages из paginationInfo (или ceil(total/limit));
// без метаданных короткая страница — последняя, полная — «есть следующая».
func (s *Service) ListFeed(ctx context.Context, page int) (models.PostPage, error) {
	const op = "service/feed/ListFeed"

	if page < 1 {
		page = 1
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return models.PostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	limit := s.opts.PostsLimit
	list, err := s.api.ListPosts(ctx, sess.Token, page, limit)
	if err != nil {
		return models.PostPage{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	total := totalPages(list, page, limit)

	posts := dedupePosts(list.Posts)
	sortNewestFirst(posts)
	if len(posts) > limit {
		posts = posts[:limit]
	}

	s.seedComments(list.Comments)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.feed = feedState{page: page, totalPages: total, posts: posts}
	s.reconcileLocked(s.feed.posts)

	return s.feedPageLocked(), nil
}

// Feed — текущая страница ленты без сетевых вызовов.
func (s *Service) Feed() models.PostPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.feedPageLocked()
}

func (s *Service) feedPageLocked() models.PostPage {
	page := max(s.feed.page, 1)
	total := max(s.feed.totalPages, page)

	return models.PostPage{
		Posts:      slices.Clone(s.feed.posts),
		Page:       page,
		TotalPages: total,
		HasMore:    page < total,
	}
}

func totalPages(list models.PostList, page, limit int) int {
	if pi := list.Pagination; pi != nil {
		if pi.NumberOfPages > 0 {
			return pi.NumberOfPages
		}
		if pi.Total > 0 && limit > 0 {
			return max(1, (pi.Total+limit-1)/limit)
		}
	}

	if len(list.Posts) < limit {
		return page
	}

	return page + 1
}

// sortNewestFirst — по createdAt (или updatedAt) по убыванию, устойчиво.
func sortNewestFirst(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.SortTime().Compare(a.SortTime())
	})
}

// seedComments кладёт встроенные в посты комментарии в кэш.
// Список с неподтверждёнными записями не перезаписывается.
func (s *Service) seedComments(byPost map[string][]models.Comment) {
	for postID, list := range byPost {
		if cur, ok := s.comments.Get(postID); ok && slices.ContainsFunc(cur, models.Comment.Pending) {
			continue
		}
		s.comments.Set(postID, list)
	}
}

// reconcileLocked выравнивает счётчики и превью панелей по кэшу. Вызывать под s.mu.
func (s *Service) reconcileLocked(posts []models.Post) {
	for i := range posts {
		id := posts[i].ID
		if !s.comments.Has(id) {
			continue
		}

		posts[i].CommentsCount = s.comments.Len(id)
		p := s.panel(id)
		if cm, ok := s.comments.Newest(id); ok {
			p.Preview = &cm
		}
		if p.Opened {
			s.reslice(p)
		}
	}
}

// CreatePost публикует пост. На первой странице ленты пост сразу
// появляется как pending, затем первая страница перечитывается.
// После публикации лента всегда на первой странице.
func (s *Service) CreatePost(ctx context.Context, in models.NewPost) (models.PostPage, error) {
	const op = "service/feed/CreatePost"

	ctx, l := log.With(ctx, slog.String("op", op))

	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" && in.Image == nil {
		return models.PostPage{}, fmt.Errorf("%s: %w", op, invalid("post is empty"))
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return models.PostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	preview := s.stagePreview(ctx, sess.UserID(), in.Image)

	id, name, avatar := author(sess)
	pending := models.Post{
		ID:           s.newID(),
		AuthorID:     id,
		AuthorName:   name,
		AuthorAvatar: avatar,
		Body:         in.Body,
		Image:        preview.URL,
		CreatedAt:    s.now(),
		State:        models.StatePending,
	}

	s.mu.Lock()
	optimistic := s.feed.page <= 1
	if optimistic {
		s.feed.page = 1
		s.feed.posts = append([]models.Post{pending}, s.feed.posts...)
		if len(s.feed.posts) > s.opts.PostsLimit {
			s.feed.posts = s.feed.posts[:s.opts.PostsLimit]
		}
	}
	s.mu.Unlock()

	created, err := s.api.CreatePost(ctx, sess.Token, in)
	if err != nil {
		err = mapError(err)
		l.Warn("post create failed", slog.String("err", err.Error()))

		s.dropPost(pending.ID)
		s.discardPreview(ctx, preview)

		return models.PostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page, err := s.ListFeed(ctx, 1)
	if err != nil {
		l.Warn("feed refetch failed", slog.String("err", err.Error()))

		// Лента остаётся с оптимистичной записью (или подтверждённой, если backend её вернул).
		s.mu.Lock()
		defer s.mu.Unlock()
		if created != nil {
			s.replacePostLocked(pending.ID, *created)
		}

		return s.feedPageLocked(), nil
	}

	s.discardPreview(ctx, preview)

	return page, nil
}

func (s *Service) stagePreview(ctx context.Context, userID string, img *models.Upload) storage.Preview {
	if s.previews == nil || img == nil {
		return storage.Preview{}
	}

	p, err := s.previews.Stage(ctx, userID, *img)
	if err != nil {
		log.From(ctx).Warn("preview staging failed", slog.String("err", err.Error()))
		return storage.Preview{}
	}

	return p
}

func (s *Service) discardPreview(ctx context.Context, p storage.Preview) {
	if s.previews == nil || p.Key == "" {
		return
	}

	if err := s.previews.Discard(ctx, p.Key); err != nil {
		log.From(ctx).Warn("preview discard failed", slog.String("key", p.Key), slog.String("err", err.Error()))
	}
}

// dropPost убирает пост из ленты и «моих постов».
func (s *Service) dropPost(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := func(p models.Post) bool { return p.ID == id }
	s.feed.posts = slices.DeleteFunc(s.feed.posts, keep)
	s.mine.posts = slices.DeleteFunc(s.mine.posts, keep)
}

// replacePostLocked подменяет запись id. Вызывать под s.mu.
func (s *Service) replacePostLocked(id string, p models.Post) {
	for _, list := range [][]models.Post{s.feed.posts, s.mine.posts} {
		for i := range list {
			if list[i].ID == id {
				if s.comments.Has(p.ID) {
					p.CommentsCount = s.comments.Len(p.ID)
				}
				list[i] = p
			}
		}
	}
}

// PageItem — элемент пейджера: номер страницы или многоточие.
type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// BuildPageWindow — пейджер: все страницы при total <= 8,
// иначе 1 … (page-2..page+2) … total.
func BuildPageWindow(page, total int) []PageItem {
	if total < 1 {
		return []PageItem{}
	}
	page = min(max(page, 1), total)

	out := make([]PageItem, 0, 9)
	push := func(n int) { out = append(out, PageItem{Page: n, Current: n == page}) }
	gap := func() { out = append(out, PageItem{Ellipsis: true}) }

	if total <= 8 {
		for i := 1; i <= total; i++ {
			push(i)
		}
		return out
	}

	left := max(2, page-2)
	right := min(total-1, page+2)

	push(1)
	if left > 2 {
		gap()
	}
	for i := left; i <= right; i++ {
		push(i)
	}
	if right < total-1 {
		gap()
	}
	push(total)

	return out
}
