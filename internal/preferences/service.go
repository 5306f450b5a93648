package preferences

import (
	"context"
	"sync"

	"github.com/oakline/storefront-backend/pkg/enums"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const storeKey = "storefront_theme_v1"

// Service holds presentation preferences. Only the theme so far.
type Service struct {
	mu    sync.Mutex
	store kvstore.Store
	logg  *logger.Logger
	theme enums.Theme
}

// NewService reloads the theme; absent or unreadable state defaults to light.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{store: store, logg: logg, theme: enums.ThemeLight}
	var persisted enums.Theme
	if store.Load(ctx, storeKey, &persisted) && persisted.IsValid() {
		s.theme = persisted
	}
	return s
}

func (s *Service) Theme(_ context.Context) enums.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the theme; unknown values are ignored.
func (s *Service) SetTheme(ctx context.Context, theme enums.Theme) {
	if !theme.IsValid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.store.Save(ctx, storeKey, s.theme)
}

// Toggle flips between light and dark and returns the new theme.
func (s *Service) Toggle(ctx context.Context) enums.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == enums.ThemeDark {
		s.theme = enums.ThemeLight
	} else {
		s.theme = enums.ThemeDark
	}
	s.store.Save(ctx, storeKey, s.theme)
	return s.theme
}
