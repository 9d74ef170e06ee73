package session

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты Redis-хранилища:
// — поднимают реальный Redis через testcontainers-go;
// — проверяют Get/Set/Delete под префиксом и доставку изменений
//   между двумя экземплярами через Pub/Sub.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/session -run Redis -v -race -count=1

func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedisStore_CrossInstanceChanges(t *testing.T) {
	url := startRedis(t)

	a, err := NewRedisStore(url, "test:storage:", "test:changes")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b, err := NewRedisStore(url, "test:storage:", "test:changes")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "token", "abc"))
	require.Equal(t, Change{Key: "token"}, recv(t, ch))

	v, ok, err := b.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.NoError(t, a.Delete(ctx, "token"))
	require.Equal(t, Change{Key: "token", Deleted: true}, recv(t, ch))

	_, ok, err = b.Get(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_ManagerSeesOtherInstanceSignIn(t *testing.T) {
	url := startRedis(t)

	a, err := NewRedisStore(url, "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b, err := NewRedisStore(url, "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mb := NewManager(b)
	sub := mb.Subscribe(ctx)
	go func() { _ = mb.Run(ctx) }()

	ma := NewManager(a)
	require.Eventually(t, func() bool {
		_ = ma.SignIn(context.Background(), "t-remote", nil)
		select {
		case s := <-sub:
			return s.Token == "t-remote"
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisStore("://nope", "", "")
	require.Error(t, err)
}
