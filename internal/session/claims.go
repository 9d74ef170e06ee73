package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken — токен не разбирается как JWT.
var ErrMalformedToken = errors.New("malformed token")

// Claims — поля токена, нужные шлюзу.
// Подпись не проверяется: токен выпускает backend, шлюз его только читает.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// userIDClaims — где backend может держать id пользователя.
var userIDClaims = []string{"user", "id", "_id", "userId", "sub"}

// ParseClaims разбирает payload JWT без проверки подписи.
// Отсутствие exp — токен бессрочный (ExpiresAt нулевой).
func ParseClaims(token string) (Claims, error) {
	const op = "session/claims/ParseClaims"

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}

	var c Claims
	for _, k := range userIDClaims {
		if v, ok := mc[k].(string); ok && v != "" {
			c.UserID = v
			break
		}
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}

	return c, nil
}

// Expired — токен с exp в прошлом.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
