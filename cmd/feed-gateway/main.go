package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/backend/authscheme"
	"github.com/pribylovaa/linked-feed/internal/backend/transport"
	"github.com/pribylovaa/linked-feed/internal/config"
	gwhttp "github.com/pribylovaa/linked-feed/internal/http"
	"github.com/pribylovaa/linked-feed/internal/http/handlers"
	"github.com/pribylovaa/linked-feed/internal/metrics"
	"github.com/pribylovaa/linked-feed/internal/render"
	"github.com/pribylovaa/linked-feed/internal/service"
	"github.com/pribylovaa/linked-feed/internal/session"
	"github.com/pribylovaa/linked-feed/internal/storage"
	"github.com/pribylovaa/linked-feed/internal/storage/minio"
	"github.com/pribylovaa/linked-feed/internal/tracing"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting feed-gateway", "env", cfg.Env, "backend", cfg.Backend.BaseURL)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	shutdownTracing, err := tracing.Setup(rootCtx, cfg.Tracing, cfg.Env)
	if err != nil {
		log.Error("tracing_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracing_shutdown_failed", slog.String("err", err.Error()))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Сессия.
	store, err := newSessionStore(cfg.Session)
	if err != nil {
		log.Error("session_store_init_failed", slog.String("driver", cfg.Session.Driver), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("session_store_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("session_store_initialized", slog.String("driver", cfg.Session.Driver))

	sessions := session.NewManager(store)
	go func() {
		if err := sessions.Run(rootCtx); err != nil {
			log.Error("session_watch_failed", slog.String("err", err.Error()))
		}
	}()

	// Backend.
	negotiator, err := authscheme.New(cfg.Auth.Schemes,
		authscheme.WithRetryIf(backend.RejectedAuth),
		authscheme.WithMismatchHook(m.AuthMismatch),
	)
	if err != nil {
		log.Error("auth_schemes_invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}

	hc := &http.Client{
		Transport: transport.Chain(tracing.Transport(http.DefaultTransport),
			transport.WithMetadata(cfg.Backend.UserAgent),
			transport.WithTimeout(cfg.Timeouts.Service),
			transport.WithLogging(log),
			m.Backend(),
		),
	}

	api, err := backend.New(cfg.Backend.BaseURL, hc, negotiator)
	if err != nil {
		log.Error("backend_client_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("backend_client_initialized", slog.Any("auth_schemes", negotiator.Order()))

	// Превью изображений.
	var previews storage.Previews
	if cfg.Media.Enabled {
		ps, err := minio.New(rootCtx, cfg.Media)
		if err != nil {
			log.Error("media_init_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		previews = ps
		log.Info("media_initialized", slog.String("bucket", cfg.Media.Bucket))
	}

	svc := service.New(api, sessions, previews, service.Options{
		PostsLimit:       cfg.Feed.PostsLimit,
		CommentsPageSize: cfg.Feed.CommentsPageSize,
		MyPostsLimit:     cfg.Feed.MyPostsLimit,
	})
	go svc.Watch(rootCtx)

	apiHandler := gwhttp.NewRouter(handlers.New(svc, sessions, render.New()), gwhttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: "",
		Metrics:  m,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", tracing.Handler(apiHandler, "feed-gateway"))

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("gateway_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

func newSessionStore(cfg config.SessionConfig) (session.Store, error) {
	if cfg.Driver == "redis" {
		return session.NewRedisStore(cfg.RedisURL, cfg.Prefix, cfg.Channel)
	}

	return session.NewMemoryStore(), nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
