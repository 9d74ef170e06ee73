package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/storage"
)

// Me читает профиль из backend и обновляет снимок в сессии.
func (s *Service) Me(ctx context.Context) (models.User, error) {
	const op = "service/profile/Me"

	sess, err := s.auth(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	me, err := s.api.Profile(ctx, sess.Token)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	stored := me
	stored.Token = sess.Token
	if err := s.sessions.SaveUser(ctx, stored); err != nil {
		log.From(ctx).Warn("profile snapshot not saved", slog.String("op", op), slog.String("err", err.Error()))
	}

	return me, nil
}

// UploadPhoto загружает фото профиля и перечитывает профиль.
func (s *Service) UploadPhoto(ctx context.Context, photo models.Upload) (models.User, error) {
	const op = "service/profile/UploadPhoto"

	if _, err := storage.Extension(photo, 0); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, invalid("photo must be a png, jpeg, webp or gif image"))
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.api.UploadPhoto(ctx, sess.Token, photo); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return s.Me(ctx)
}

// ChangePassword меняет пароль. После успеха сессия очищается: нужен повторный вход.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	const op = "service/profile/ChangePassword"

	switch {
	case current == "":
		return fmt.Errorf("%s: %w", op, invalid("current password is required"))
	case !CheckPassword(next).Strong():
		return fmt.Errorf("%s: %w", op, invalid("password must be at least 8 characters and include uppercase, lowercase, number, and special character"))
	case next == current:
		return fmt.Errorf("%s: %w", op, invalid("new password cannot be the same as the current password"))
	case next != confirm:
		return fmt.Errorf("%s: %w", op, invalid("new password and confirmation do not match"))
	}

	sess, err := s.auth(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.api.ChangePassword(ctx, sess.Token, current, next); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	if err := s.SignOut(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
