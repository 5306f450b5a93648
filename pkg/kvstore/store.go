package kvstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/logger"
)

// Store is the durable document port every stateful component persists through.
//
// Load returns false when the key is absent, the backend is unreachable, or the
// stored document cannot be decoded into out; the caller substitutes its
// defaults. Save is best-effort: marshal and write failures are logged and
// swallowed, so the in-memory state stays authoritative even when durability is
// silently lost.
type Store interface {
	Load(ctx context.Context, key string, out any) bool
	Save(ctx context.Context, key string, value any)
}

// NewFromConfig selects a backend from configuration. The returned closer
// releases whatever connections the backend holds; closing a memory store is a
// no-op.
func NewFromConfig(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, io.Closer, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.KV.Backend))
	switch backend {
	case config.KVBackendMemory:
		return NewMemory(), nopCloser{}, nil
	case config.KVBackendSQLite, config.KVBackendPostgres:
		store, err := NewGorm(ctx, cfg.KV, logg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.KVBackendRedis:
		store, err := NewRedis(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown kv backend %q", cfg.KV.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// MultiCloser aggregates close errors from several resources.
type MultiCloser []io.Closer

func (m MultiCloser) Close() error {
	var errs []error
	for _, closer := range m {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
