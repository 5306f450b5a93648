package wishlist

import (
	"context"
	"sync"

	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const storeKey = "storefront_wishlist_v1"

// Service keeps product snapshots the shopper saved for later, newest first.
type Service struct {
	mu       sync.Mutex
	store    kvstore.Store
	logg     *logger.Logger
	products []catalog.Product
}

// NewService reloads the wishlist; anything unreadable becomes empty.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{store: store, logg: logg, products: []catalog.Product{}}
	var persisted []catalog.Product
	if store.Load(ctx, storeKey, &persisted) && persisted != nil {
		s.products = persisted
	}
	return s
}

// Toggle adds the product when absent and removes it when present. It reports
// whether the product is on the list afterwards.
func (s *Service) Toggle(ctx context.Context, product catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == product.ID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persist(ctx)
			return false
		}
	}
	s.products = append([]catalog.Product{product}, s.products...)
	s.persist(ctx)
	return true
}

// Remove drops the product if present; unknown ids are a no-op.
func (s *Service) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == productID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the wishlist.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = []catalog.Product{}
	s.persist(ctx)
}

// Products returns the saved snapshots, newest first.
func (s *Service) Products(_ context.Context) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Count returns the number of saved products.
func (s *Service) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// Contains reports whether the product id is saved.
func (s *Service) Contains(_ context.Context, productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func (s *Service) persist(ctx context.Context) {
	s.store.Save(ctx, storeKey, s.products)
}
