package navigation

import (
	"context"
	"strings"
	"sync"

	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const storeKey = "storefront_last_route_v1"

// Auth pages are never remembered: returning a user to a login form after a
// reload would be worse than returning them to the default route.
var suppressedPaths = map[string]bool{
	"/login":  true,
	"/signup": true,
}

// Service remembers the last meaningful route so a reload can restore it.
type Service struct {
	mu    sync.Mutex
	store kvstore.Store
	logg  *logger.Logger
	last  string
}

func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{store: store, logg: logg}
	var last string
	if store.Load(ctx, storeKey, &last) {
		s.last = last
	}
	return s
}

// LastRoute returns the remembered route, or "" when none is stored.
func (s *Service) LastRoute(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// SetLastRoute records the route. Blank input is ignored. The query string is
// stripped before the auth-path check so "/login?next=/cart" is still
// suppressed; suppressed paths leave the stored route untouched.
func (s *Service) SetLastRoute(ctx context.Context, route string) {
	trimmed := strings.TrimSpace(route)
	if trimmed == "" {
		return
	}

	path := trimmed
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if suppressedPaths[path] {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = trimmed
	s.store.Save(ctx, storeKey, s.last)
}
