package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/models"
)

const strongPassword = "Secret#123"

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pw   string
		want PasswordChecks
	}{
		{"", PasswordChecks{}},
		{"abc", PasswordChecks{Lower: true}},
		{"Secret123", PasswordChecks{Upper: true, Lower: true, Digit: true, Length: true}},
		{"Sec#1", PasswordChecks{Upper: true, Lower: true, Digit: true, Special: true}},
		{strongPassword, PasswordChecks{Upper: true, Lower: true, Digit: true, Special: true, Length: true}},
		{"Secret_123", PasswordChecks{Upper: true, Lower: true, Digit: true, Length: true}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, CheckPassword(tt.pw), tt.pw)
	}

	require.True(t, CheckPassword(strongPassword).Strong())
	require.False(t, CheckPassword("Secret123").Strong())
}

func TestSignUp_Validation(t *testing.T) {
	s, _, _ := newServiceWithMocks(t)

	valid := models.SignUp{Name: "Ann", Email: "ann@example.com", Password: strongPassword, RePassword: strongPassword}

	tests := []struct {
		name   string
		mutate func(*models.SignUp)
		msg    string
	}{
		{"weak_password", func(in *models.SignUp) { in.Password, in.RePassword = "secret", "secret" }, "password must be"},
		{"mismatch", func(in *models.SignUp) { in.RePassword = "Secret#124" }, "passwords do not match"},
		{"no_name", func(in *models.SignUp) { in.Name = "  " }, "name is required"},
		{"bad_email", func(in *models.SignUp) { in.Email = "ann" }, "email is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := s.SignUp(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidArgument)

			var ie *InputError
			require.ErrorAs(t, err, &ie)
			require.Contains(t, ie.Msg, tt.msg)
		})
	}
}

func TestSignUp_DefaultGender(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)

	want := models.SignUp{Name: "Ann", Email: "ann@example.com", Password: strongPassword, RePassword: strongPassword, Gender: "male"}
	api.EXPECT().SignUp(gomock.Any(), want).Return(nil)

	in := want
	in.Gender = ""
	in.Name = " Ann "
	require.NoError(t, s.SignUp(context.Background(), in))
}

func TestSignUp_Conflict(t *testing.T) {
	s, api, _ := newServiceWithMocks(t)

	api.EXPECT().SignUp(gomock.Any(), gomock.Any()).
		Return(&backend.StatusError{Status: http.StatusConflict, Message: "user already exists"})

	err := s.SignUp(context.Background(), models.SignUp{
		Name: "Ann", Email: "ann@example.com", Password: strongPassword, RePassword: strongPassword,
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, "user already exists", backend.Message(err))
}

func TestSignIn_StoresSession(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	creds := models.Credentials{Email: "bob@example.com", Password: "pw"}
	api.EXPECT().SignIn(gomock.Any(), creds).Return("tok2", &models.User{ID: "u2", Name: "Bob"}, nil)

	u, err := s.SignIn(ctx, models.Credentials{Email: " bob@example.com ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "u2", u.ID)
	require.Empty(t, u.Token)

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok2", sess.Token)
	require.Equal(t, "u2", sess.UserID())
}

func TestSignIn_FetchesProfileWhenMissing(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	gomock.InOrder(
		api.EXPECT().SignIn(gomock.Any(), gomock.Any()).Return("tok2", nil, nil),
		api.EXPECT().Profile(gomock.Any(), "tok2").Return(models.User{ID: "u2", Name: "Bob"}, nil),
	)

	u, err := s.SignIn(ctx, models.Credentials{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "Bob", u.Name)

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "u2", sess.UserID())
}

func TestSignIn_Errors(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	_, err := s.SignIn(ctx, models.Credentials{Email: "nope", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	api.EXPECT().SignIn(gomock.Any(), gomock.Any()).
		Return("", nil, &backend.StatusError{Status: http.StatusBadRequest, Message: "incorrect email or password"})

	_, err = s.SignIn(ctx, models.Credentials{Email: "bob@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "incorrect email or password", backend.Message(err))

	// Старая сессия не тронута.
	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, testToken, sess.Token)
}

func TestSignOut_ClearsSessionAndState(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	api.EXPECT().ListComments(gomock.Any(), testToken, "p1").Return(comments("p1", 1), nil)
	_, err := s.LoadPage(ctx, "p1", 1, false)
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx))
	require.False(t, s.comments.Has("p1"))

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.False(t, sess.SignedIn())
}

func TestChangePassword(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	for _, tt := range []struct{ current, next, confirm, msg string }{
		{"", strongPassword, strongPassword, "current password is required"},
		{"Old#1234", "weak", "weak", "password must be"},
		{strongPassword, strongPassword, strongPassword, "cannot be the same"},
		{"Old#1234", strongPassword, "Secret#124", "do not match"},
	} {
		err := s.ChangePassword(ctx, tt.current, tt.next, tt.confirm)
		var ie *InputError
		require.ErrorAs(t, err, &ie)
		require.Contains(t, ie.Msg, tt.msg)
	}

	api.EXPECT().ChangePassword(gomock.Any(), testToken, "Old#1234", strongPassword).
		Return("", &backend.StatusError{Status: http.StatusBadRequest, Message: "incorrect password"})
	require.ErrorIs(t, s.ChangePassword(ctx, "Old#1234", strongPassword, strongPassword), ErrInvalidArgument)

	api.EXPECT().ChangePassword(gomock.Any(), testToken, "Old#1234", strongPassword).Return("tok2", nil)
	require.NoError(t, s.ChangePassword(ctx, "Old#1234", strongPassword, strongPassword))

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.False(t, sess.SignedIn(), "re-login required")
}

func TestUploadPhoto(t *testing.T) {
	s, api, sessions := newServiceWithMocks(t)
	ctx := context.Background()

	_, err := s.UploadPhoto(ctx, models.Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("x")})
	require.ErrorIs(t, err, ErrInvalidArgument)

	photo := models.Upload{Filename: "a.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	gomock.InOrder(
		api.EXPECT().UploadPhoto(gomock.Any(), testToken, photo).Return(nil),
		api.EXPECT().Profile(gomock.Any(), testToken).
			Return(models.User{ID: "u1", Name: "Ann", Photo: "https://img/ann.png"}, nil),
	)

	me, err := s.UploadPhoto(ctx, photo)
	require.NoError(t, err)
	require.Equal(t, "https://img/ann.png", me.Photo)

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://img/ann.png", sess.User.Photo)
	require.Equal(t, testToken, sess.Token)
}
