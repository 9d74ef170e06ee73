package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/pkg/redact"
)

// passwordSpecials — спецсимволы, один из которых обязателен в пароле.
const passwordSpecials = "#?!@$%^&*-"

// PasswordChecks — чек-лист сложности пароля.
type PasswordChecks struct {
	Upper   bool `json:"upper"`
	Lower   bool `json:"lower"`
	Digit   bool `json:"digit"`
	Special bool `json:"special"`
	Length  bool `json:"length"`
}

func (c PasswordChecks) Strong() bool {
	return c.Upper && c.Lower && c.Digit && c.Special && c.Length
}

// CheckPassword: не короче 8 символов, есть заглавная, строчная, цифра и один из #?!@$%^&*-.
func CheckPassword(pw string) PasswordChecks {
	var c PasswordChecks
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= '0' && r <= '9':
			c.Digit = true
		case strings.ContainsRune(passwordSpecials, r):
			c.Special = true
		}
	}
	c.Length = len([]rune(pw)) >= 8

	return c
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// SignIn входит по email/паролю и сохраняет сессию.
// Если backend не вернул пользователя, профиль дочитывается отдельно.
func (s *Service) SignIn(ctx context.Context, in models.Credentials) (models.User, error) {
	const op = "service/auth/SignIn"

	in.Email = strings.TrimSpace(in.Email)
	if !validEmail(in.Email) || in.Password == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, invalid("email and password are required"))
	}

	ctx, l := log.With(ctx, slog.String("op", op), slog.String("email", redact.Email(in.Email)))

	token, user, err := s.api.SignIn(ctx, in)
	if err != nil {
		l.Info("sign in rejected", slog.String("err", err.Error()))
		return models.User{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if user == nil {
		me, err := s.api.Profile(ctx, token)
		if err != nil {
			l.Warn("profile after sign in failed", slog.String("err", err.Error()))
			me = models.User{Email: in.Email}
		}
		user = &me
	}

	if err := s.sessions.SignIn(ctx, token, user); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	l.Info("signed in")

	out := *user
	out.Token = ""
	return out, nil
}

// SignUp регистрирует пользователя. Вход не выполняется.
func (s *Service) SignUp(ctx context.Context, in models.SignUp) error {
	const op = "service/auth/SignUp"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Gender == "" {
		in.Gender = "male"
	}

	switch {
	case !CheckPassword(in.Password).Strong():
		return fmt.Errorf("%s: %w", op, invalid("password must be at least 8 characters and include uppercase, lowercase, number, and special ("+passwordSpecials+")"))
	case in.Password != in.RePassword:
		return fmt.Errorf("%s: %w", op, invalid("passwords do not match"))
	case in.Name == "":
		return fmt.Errorf("%s: %w", op, invalid("name is required"))
	case !validEmail(in.Email):
		return fmt.Errorf("%s: %w", op, invalid("email is invalid"))
	}

	if err := s.api.SignUp(ctx, in); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	log.From(ctx).Info("signed up", slog.String("op", op), slog.String("email", redact.Email(in.Email)))

	return nil
}

// SignOut очищает сессию; сброс клиентского состояния придёт через подписку.
func (s *Service) SignOut(ctx context.Context) error {
	const op = "service/auth/SignOut"

	if err := s.sessions.SignOut(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	s.Reset()

	return nil
}
