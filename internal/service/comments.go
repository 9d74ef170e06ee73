package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
)

// LoadPage показывает страницу page комментариев поста.
// Полный список берётся из кэша, при его отсутствии — из backend.
// appendMode сохраняет уже показанные комментарии и дописывает новую страницу.
func (s *Service) LoadPage(ctx context.Context, postID string, page int, appendMode bool) (Panel, error) {
	const op = "service/comments/LoadPage"

	if strings.TrimSpace(postID) == "" {
		return Panel{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}

	if !s.comments.Has(postID) {
		if err := s.fetchComments(ctx, postID); err != nil {
			return s.failPanel(postID, err), fmt.Errorf("%s: %w", op, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	p.Opened = true
	p.Page = page
	p.appended = appendMode && page > 1
	p.Error = ""
	s.reslice(p)

	return p.snapshot(), nil
}

// RefreshComments — безусловная перезагрузка списка и показ страницы page.
func (s *Service) RefreshComments(ctx context.Context, postID string, page int) (Panel, error) {
	const op = "service/comments/RefreshComments"

	if err := s.fetchComments(ctx, postID); err != nil {
		return s.failPanel(postID, err), fmt.Errorf("%s: %w", op, err)
	}

	return s.LoadPage(ctx, postID, page, false)
}

// fetchComments загружает полный список в кэш. Пока идёт запрос, панель в состоянии loading.
func (s *Service) fetchComments(ctx context.Context, postID string) error {
	sess, err := s.auth(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.panel(postID).Loading = true
	s.mu.Unlock()

	list, err := s.api.ListComments(ctx, sess.Token, postID)

	s.mu.Lock()
	s.panel(postID).Loading = false
	s.mu.Unlock()

	if err != nil {
		return mapError(err)
	}

	s.comments.Set(postID, list)
	return nil
}

// SubmitComment отправляет text (или буфер composer, если text пуст).
// Без редактирования — создание с оптимистичной записью; при редактировании — PUT.
func (s *Service) SubmitComment(ctx context.Context, postID, text string) (Panel, error) {
	const op = "service/comments/SubmitComment"

	if strings.TrimSpace(postID) == "" {
		return Panel{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	s.mu.Lock()
	p := s.panel(postID)
	if p.Posting || p.SavingEdit {
		s.mu.Unlock()
		return Panel{}, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	if text == "" {
		text = p.Input
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return Panel{}, fmt.Errorf("%s: %w", op, invalid("comment text is empty"))
	}

	editingID := p.EditingID
	if editingID != "" {
		p.SavingEdit = true
	} else {
		p.Posting = true
	}
	p.Error = ""
	s.mu.Unlock()

	if editingID != "" {
		return s.saveEdit(ctx, op, postID, editingID, text)
	}

	return s.createComment(ctx, op, postID, text)
}

func (s *Service) createComment(ctx context.Context, op, postID, text string) (Panel, error) {
	ctx, l := log.With(ctx, slog.String("op", op), slog.String("post_id", postID))

	sess, err := s.auth(ctx)
	if err != nil {
		return s.finishPosting(postID, text, err), fmt.Errorf("%s: %w", op, err)
	}

	// Оптимистичную запись некуда вставить, пока список поста не загружен.
	cached := s.comments.Has(postID)
	if !cached {
		cached = s.fetchComments(ctx, postID) == nil
	}

	id, name, avatar := author(sess)
	pending := models.Comment{
		ID:           s.newID(),
		PostID:       postID,
		AuthorID:     id,
		AuthorName:   name,
		AuthorAvatar: avatar,
		Text:         text,
		CreatedAt:    s.now(),
		State:        models.StatePending,
	}

	if cached {
		s.comments.Insert(postID, pending)
		s.mu.Lock()
		p := s.panel(postID)
		p.Page, p.appended = 1, false
		s.reslice(p)
		s.mu.Unlock()
	}

	created, err := s.api.CreateComment(ctx, sess.Token, postID, text)
	if err != nil {
		err = mapError(err)
		l.Warn("comment create failed",
			slog.String("comment_id", pending.ID),
			slog.String("state", string(models.StateFailed)),
			slog.String("err", err.Error()),
		)

		s.comments.Remove(postID, pending.ID)
		s.resync(ctx, postID)

		return s.finishPosting(postID, text, err), fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case created != nil && cached:
		if s.comments.Replace(postID, pending.ID, *created) {
			break
		}
		// Пока шёл запрос, список перечитали или сбросили: pending уже нет.
		if !s.comments.Upsert(postID, *created) {
			s.resync(ctx, postID)
		}
	default:
		// Сервер подтвердил без записи: убираем pending и перечитываем.
		s.comments.Remove(postID, pending.ID)
		s.resync(ctx, postID)
	}

	return s.finishPosting(postID, "", nil), nil
}

// resync перечитывает список поста; ошибка только логируется.
func (s *Service) resync(ctx context.Context, postID string) {
	if err := s.fetchComments(ctx, postID); err != nil {
		log.From(ctx).Warn("comments resync failed", slog.String("err", err.Error()))
	}
}

// finishPosting снимает posting и показывает первую страницу.
// input — что оставить в composer (текст для повтора при ошибке).
func (s *Service) finishPosting(postID, input string, err error) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	p.Posting = false
	p.Input = input
	p.Opened = true
	p.Page, p.appended = 1, false
	p.Error = ""
	if err != nil {
		p.Error = userMessage(err)
	}
	s.reslice(p)

	return p.snapshot()
}

func (s *Service) saveEdit(ctx context.Context, op, postID, commentID, text string) (Panel, error) {
	sess, err := s.auth(ctx)
	if err == nil {
		_, err = s.api.UpdateComment(ctx, sess.Token, commentID, text)
		err = mapError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	p.SavingEdit = false

	if err != nil {
		// Черновик правки остаётся для повтора.
		p.Input = text
		p.Error = userMessage(err)
		return p.snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	s.comments.UpdateText(postID, commentID, text)
	p.EditingID = ""
	p.Input = ""
	p.Error = ""
	s.reslice(p)

	return p.snapshot(), nil
}

// StartEdit переносит текст комментария в composer.
func (s *Service) StartEdit(ctx context.Context, postID, commentID string) (Panel, error) {
	const op = "service/comments/StartEdit"

	cm, ok := s.comments.Find(postID, commentID)
	if !ok {
		return Panel{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if cm.Pending() {
		return Panel{}, fmt.Errorf("%s: %w", op, invalid("comment is not confirmed yet"))
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return Panel{}, fmt.Errorf("%s: %w", op, err)
	}
	if uid := sess.UserID(); uid != "" && cm.AuthorID != "" && uid != cm.AuthorID {
		return Panel{}, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	if p.SavingEdit || p.Posting {
		return Panel{}, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	p.EditingID = commentID
	p.Input = cm.Text
	p.Error = ""

	return p.snapshot(), nil
}

// CancelEdit сбрасывает правку и буфер composer.
func (s *Service) CancelEdit(postID string) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	if !p.SavingEdit {
		p.EditingID = ""
		p.Input = ""
	}

	return p.snapshot()
}

// DeleteComment удаляет комментарий. Неподтверждённый удаляется локально,
// без сети; подтверждённый — только после успеха DELETE.
func (s *Service) DeleteComment(ctx context.Context, postID, commentID string) (Panel, error) {
	const op = "service/comments/DeleteComment"

	if cm, ok := s.comments.Find(postID, commentID); ok && cm.Pending() {
		s.comments.Remove(postID, commentID)
		return s.afterDelete(postID, commentID), nil
	}

	sess, err := s.auth(ctx)
	if err == nil {
		err = mapError(s.api.DeleteComment(ctx, sess.Token, commentID))
	}
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()

		p := s.panel(postID)
		p.Error = deleteMessage(err)

		return p.snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	s.comments.Remove(postID, commentID)
	return s.afterDelete(postID, commentID), nil
}

func (s *Service) afterDelete(postID, commentID string) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	if p.EditingID == commentID {
		p.EditingID = ""
		p.Input = ""
	}
	p.Error = ""
	s.reslice(p)

	return p.snapshot()
}

// failPanel записывает ошибку загрузки в панель.
func (s *Service) failPanel(postID string, err error) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	p.Opened = true
	p.Loading = false
	p.Error = userMessage(err)

	return p.snapshot()
}

// userMessage — короткое сообщение для панели.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotSignedIn), errors.Is(err, ErrUnauthenticated):
		return "Your session is invalid or expired. Please log in again."
	case errors.Is(err, ErrPermissionDenied):
		return "You can only modify your own content."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	case errors.Is(err, ErrInvalidArgument):
		var ie *InputError
		if errors.As(err, &ie) {
			return ie.Msg
		}
		if msg := backend.Message(err); msg != "" {
			return msg
		}
		return "Invalid input."
	default:
		return "Something went wrong. Please try again."
	}
}

func deleteMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		if msg := backend.Message(err); msg != "" {
			return msg
		}
		return "You can only delete your own comments."
	case errors.Is(err, ErrNotFound):
		return "Comment not found."
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrNotSignedIn):
		return "Unauthorized. Please log in again."
	default:
		return userMessage(err)
	}
}
