package models

import "time"

// User — профиль текущего пользователя.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Gender      string    `json:"gender,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	// Token дублируется в сохранённом профиле, как это делает SPA.
	Token string `json:"token,omitempty"`
}

// DisplayName — имя для подписи; пустое имя заменяется локальной частью email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}

	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}

	return u.Email
}

// SignUp — данные регистрации.
type SignUp struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	RePassword  string `json:"rePassword"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender"`
}

// Credentials — данные входа.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
