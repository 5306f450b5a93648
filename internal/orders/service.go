package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
	"github.com/oakline/storefront-backend/pkg/types"
)

const storeKey = "storefront_orders_v1"

// Order snapshots a completed checkout. Items and total are frozen at
// placement time and never re-derived from the catalog.
type Order struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Items     []cart.Item       `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Address   types.Address     `json:"address"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Service owns the order list, newest first.
type Service struct {
	mu     sync.Mutex
	store  kvstore.Store
	logg   *logger.Logger
	orders []Order
	now    func() time.Time
	lastID int64
}

// NewService reloads the persisted order list. A corrupt document starts
// empty.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{store: store, logg: logg, now: time.Now}

	var persisted []Order
	if store.Load(ctx, storeKey, &persisted) && persisted != nil {
		for _, o := range persisted {
			if !o.Status.IsValid() {
				o.Status = enums.OrderStatusPlaced
			}
			var stamp int64
			if _, err := fmt.Sscanf(o.ID, "ORD-%d", &stamp); err == nil && stamp > s.lastID {
				s.lastID = stamp
			}
			s.orders = append(s.orders, o)
		}
	}
	return s
}

// Place records a new order from the given cart snapshot. The total is the
// plain sum of price times quantity; the coupon discount is the caller's
// concern and is settled before payment, not here.
func (s *Service) Place(ctx context.Context, userID string, address types.Address, items []cart.Item) (Order, error) {
	if userID == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total := decimal.Zero
	snapshot := make([]cart.Item, len(items))
	for i, item := range items {
		snapshot[i] = item
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := Order{
		ID:        s.nextOrderID(),
		UserID:    userID,
		Items:     snapshot,
		Total:     total,
		Status:    enums.OrderStatusPlaced,
		Address:   address,
		CreatedAt: s.now(),
	}
	s.orders = append([]Order{order}, s.orders...)
	s.persist(ctx)

	s.logg.Info(s.logg.WithUserID(ctx, userID), "order placed")
	return order, nil
}

// GetAll returns every order, newest first.
func (s *Service) GetAll(_ context.Context) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// GetByUserID returns the user's orders in stored order.
func (s *Service) GetByUserID(_ context.Context, userID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// GetByID looks an order up by id.
func (s *Service) GetByID(_ context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", id))
}

// Cancel moves a PLACED order to CANCELLED. In any other status the order is
// returned unchanged.
func (s *Service) Cancel(ctx context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if o.Status != enums.OrderStatusPlaced {
			return o, nil
		}
		s.orders[i].Status = enums.OrderStatusCancelled
		s.persist(ctx)
		return s.orders[i], nil
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", id))
}

// UpdateStatus sets an order's status. CANCELLED orders are terminal and are
// returned unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id string, status enums.OrderStatus) (Order, error) {
	if !status.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID != id {
			continue
		}
		if o.Status == enums.OrderStatusCancelled {
			return o, nil
		}
		s.orders[i].Status = status
		s.persist(ctx)
		return s.orders[i], nil
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", id))
}

// nextOrderID derives the id from the wall clock with a strict-increase guard
// so back-to-back placements in the same millisecond never collide.
func (s *Service) nextOrderID() string {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastID {
		stamp = s.lastID + 1
	}
	s.lastID = stamp
	return fmt.Sprintf("ORD-%d", stamp)
}

func (s *Service) persist(ctx context.Context) {
	s.store.Save(ctx, storeKey, s.orders)
}
