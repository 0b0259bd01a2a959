package repository

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a backend from the connection URL scheme:
// postgres:// and postgresql:// use pgx, sqlite:// uses SQLite, redis:// and
// rediss:// use Redis, file:// keeps accounts in a JSON file.
func Open(ctx context.Context, url string) (AccountRepository, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return NewPostgresAccountRepository(url)
	case strings.HasPrefix(url, "sqlite://"):
		return NewSQLiteAccountRepository(strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisAccountRepository(ctx, url)
	case strings.HasPrefix(url, "file://"):
		return NewFileAccountRepository(strings.TrimPrefix(url, "file://"))
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", url)
	}
}
