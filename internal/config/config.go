// config - источник загрузки конфигурации feed-gateway.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Перед разбором подхватывается ./.env (если есть), чтобы локально
// не экспортировать секреты MinIO/Redis вручную.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Backend  BackendConfig `yaml:"backend"`
	Auth     AuthConfig    `yaml:"auth"`
	Session  SessionConfig `yaml:"session"`
	Feed     FeedConfig    `yaml:"feed"`
	Media    MediaConfig   `yaml:"media"`
	Tracing  TracingConfig `yaml:"tracing"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — таймаут одного запроса к backend.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — HTTP-сервер шлюза для view-слоя.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// BackendConfig — сторонний REST backend.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"   env:"BACKEND_BASE_URL"   env-default:"https://linked-posts.routemisr.com"`
	UserAgent string `yaml:"user_agent" env:"BACKEND_USER_AGENT" env-default:"linked-feed"`
}

// AuthConfig — порядок схем передачи токена (token | bearer | raw).
// Первая схема считается «документированной»: победа любой другой
// логируется как config-mismatch.
type AuthConfig struct {
	Schemes []string `yaml:"schemes" env:"AUTH_SCHEMES" env-separator:"," env-default:"token,bearer,raw"`
}

// SessionConfig — хранилище токена и профиля.
// driver: memory (один процесс) или redis (несколько экземпляров видят вход/выход друг друга).
type SessionConfig struct {
	Driver   string `yaml:"driver"    env:"SESSION_DRIVER"    env-default:"memory"`
	RedisURL string `yaml:"redis_url" env:"SESSION_REDIS_URL" env-default:"redis://localhost:6379/0"`
	Prefix   string `yaml:"prefix"    env:"SESSION_PREFIX"    env-default:"linkedfeed:storage:"`
	Channel  string `yaml:"channel"   env:"SESSION_CHANNEL"   env-default:"linkedfeed:storage:changes"`
}

// FeedConfig — размеры страниц.
type FeedConfig struct {
	PostsLimit       int `yaml:"posts_limit"        env:"FEED_POSTS_LIMIT"        env-default:"6"`
	CommentsPageSize int `yaml:"comments_page_size" env:"FEED_COMMENTS_PAGE_SIZE" env-default:"5"`
	MyPostsLimit     int `yaml:"my_posts_limit"     env:"FEED_MY_POSTS_LIMIT"     env-default:"2"`
}

// MediaConfig — MinIO для превью изображений из composer.
type MediaConfig struct {
	Enabled      bool          `yaml:"enabled"        env:"MEDIA_ENABLED"        env-default:"false"`
	Endpoint     string        `yaml:"endpoint"       env:"MEDIA_ENDPOINT"       env-default:"http://localhost:9000"`
	AccessKey    string        `yaml:"access_key"     env:"MEDIA_ACCESS_KEY"`
	SecretKey    string        `yaml:"secret_key"     env:"MEDIA_SECRET_KEY"`
	Bucket       string        `yaml:"bucket"         env:"MEDIA_BUCKET"         env-default:"previews"`
	PresignTTL   time.Duration `yaml:"presign_ttl"    env:"MEDIA_PRESIGN_TTL"    env-default:"15m"`
	MaxSizeBytes int64         `yaml:"max_size_bytes" env:"MEDIA_MAX_SIZE_BYTES" env-default:"5242880"`
}

// TracingConfig — экспорт трасс OTLP/HTTP.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"      env:"TRACING_ENABLED"      env-default:"false"`
	Endpoint    string `yaml:"endpoint"     env:"TRACING_ENDPOINT"     env-default:"localhost:4318"`
	ServiceName string `yaml:"service_name" env:"TRACING_SERVICE_NAME" env-default:"feed-gateway"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	read := func(p string) (*Config, error) {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		return validated(read(path))
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", envPath, err)
		}
		return validated(read(envPath))
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return validated(read("local.yaml"))
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return validated(&cfg, nil)
}

// validated проверяет значения, которые cleanenv не умеет ограничить тегами.
func validated(cfg *Config, err error) (*Config, error) {
	if err != nil {
		return nil, err
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url is required")
	}

	if cfg.Feed.PostsLimit <= 0 || cfg.Feed.CommentsPageSize <= 0 || cfg.Feed.MyPostsLimit <= 0 {
		return nil, fmt.Errorf("feed page sizes must be positive")
	}

	switch cfg.Session.Driver {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	if len(cfg.Auth.Schemes) == 0 {
		return nil, fmt.Errorf("auth.schemes must not be empty")
	}

	return cfg, nil
}
