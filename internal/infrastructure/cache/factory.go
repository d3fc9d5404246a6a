package cache

import (
	"fmt"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the idempotency store the configuration selects.
// A disabled config still returns a working in-memory store so callers never
// need a nil check; the services consult the Enabled flag themselves.
func NewIdempotencyStore(cfg config.IdempotencyConfig, redisCfg config.RedisConfig) (shared.IdempotencyStore, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisIdempotencyStore(redisCfg)
	case "memory", "":
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend: %q", cfg.Backend)
	}
}
