package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const cartKey = "storefront_cart_v1"

// Item is a denormalized product snapshot taken at add time. It is never
// refreshed when the catalog changes, and it is not validated against live
// stock: the cart is a pure ledger.
type Item struct {
	ProductID int             `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// ItemFromProduct snapshots a catalog product into a cart line.
func ItemFromProduct(p catalog.Product, quantity int) Item {
	return Item{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		Quantity:  quantity,
	}
}

// Service owns the active shopper's line items.
type Service struct {
	mu    sync.Mutex
	store kvstore.Store
	logg  *logger.Logger
	items []Item
}

// NewService reloads the cart from the store; anything unreadable becomes an
// empty cart.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{store: store, logg: logg}
	var items []Item
	if store.Load(ctx, cartKey, &items) && items != nil {
		s.items = items
	} else {
		s.items = []Item{}
	}
	return s
}

// Add merges by product id: an existing line accumulates quantity, a new
// product appends a line.
func (s *Service) Add(ctx context.Context, item Item) {
	if item.Quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.items {
		if existing.ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			s.persist(ctx)
			return
		}
	}
	s.items = append(s.items, item)
	s.persist(ctx)
}

// Remove drops the line for the product id, if present.
func (s *Service) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID)
}

// SetQuantity replaces the quantity in place; zero or negative removes the
// line. Unknown product ids are a no-op.
func (s *Service) SetQuantity(ctx context.Context, productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID)
		return
	}
	for i, existing := range s.items {
		if existing.ProductID == productID {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	s.persist(ctx)
}

// Items returns a snapshot of the current lines, in insertion order.
func (s *Service) Items(_ context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// ItemCount is the sum of quantities across lines.
func (s *Service) ItemCount(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// TotalPrice is the sum of price times quantity across lines.
func (s *Service) TotalPrice(_ context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Service) removeLocked(ctx context.Context, productID int) {
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.persist(ctx)
}

func (s *Service) persist(ctx context.Context) {
	s.store.Save(ctx, cartKey, s.items)
}
