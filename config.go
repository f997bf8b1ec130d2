package console

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/sethvargo/go-envconfig"
)

// Config carries the environment-driven client settings.
type Config struct {
	BaseURL        string        `env:"CONSOLE_API_URL, default=http://127.0.0.1:8000"`
	RequestTimeout time.Duration `env:"CONSOLE_HTTP_TIMEOUT, default=30s"`
	StoragePath    string        `env:"CONSOLE_STORAGE_PATH, default=console-session.db"`
	LoginRoute     string        `env:"CONSOLE_LOGIN_ROUTE, default=login"`
	LogLevel       string        `env:"CONSOLE_LOG_LEVEL, default=info"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to load configuration")
	}
	return &cfg, nil
}
