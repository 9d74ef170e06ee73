package session_test

// Ошибки хранилища через мок:
//   mockgen -source=./internal/session/store.go -destination=./mocks/session.go -package=mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/session"
	"github.com/pribylovaa/linked-feed/mocks"
)

var errStore = errors.New("store down")

func TestManager_StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("current", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Get(gomock.Any(), session.KeyToken).Return("", false, errStore)

		_, err := session.NewManager(store).Current(ctx)
		require.ErrorIs(t, err, errStore)
	})

	t.Run("require", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, nil).AnyTimes()

		_, err := session.NewManager(store).Require(ctx)
		require.ErrorIs(t, err, session.ErrNotSignedIn)
	})

	t.Run("sign_in_stops_on_token_write", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Set(gomock.Any(), session.KeyToken, "tok").Return(errStore)

		err := session.NewManager(store).SignIn(ctx, "tok", &models.User{ID: "u1"})
		require.ErrorIs(t, err, errStore)
	})

	t.Run("sign_out_stops_on_first_error", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Delete(gomock.Any(), session.KeyToken).Return(errStore)

		require.ErrorIs(t, session.NewManager(store).SignOut(ctx), errStore)
	})

	t.Run("run_watch_failed", func(t *testing.T) {
		store := mocks.NewMockStore(gomock.NewController(t))
		store.EXPECT().Watch(gomock.Any()).Return(nil, session.ErrClosed)

		require.ErrorIs(t, session.NewManager(store).Run(ctx), session.ErrClosed)
	})
}
