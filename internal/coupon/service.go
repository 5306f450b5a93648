package coupon

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const couponKey = "storefront_coupon_v1"

// Rejection messages, exported so callers can branch on the exact rule that
// failed.
const (
	MsgInvalidCode   = "invalid coupon code"
	MsgExpired       = "coupon expired"
	MsgMinimumNotMet = "minimum order total not met"
	MsgNoEffect      = "coupon has no effect"
)

// Coupon is an immutable discount rule from the fixed catalog.
type Coupon struct {
	Code        string           `json:"code"`
	Type        enums.CouponType `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinTotal    *decimal.Decimal `json:"minTotal,omitempty"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty"`
	Expires     *time.Time       `json:"expires,omitempty"`
	Description string           `json:"description,omitempty"`
}

// Service owns the at-most-one applied coupon and the fixed catalog.
type Service struct {
	mu        sync.Mutex
	store     kvstore.Store
	logg      *logger.Logger
	available map[string]Coupon
	applied   *Coupon
	now       func() time.Time
}

// NewService reloads the applied coupon; a persisted coupon survives only if
// its code is still in the catalog.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger) *Service {
	s := &Service{
		store:     store,
		logg:      logg,
		available: demoCoupons(),
		now:       time.Now,
	}

	var persisted *Coupon
	if store.Load(ctx, couponKey, &persisted) && persisted != nil {
		if _, ok := s.available[normalizeCode(persisted.Code)]; ok {
			s.applied = persisted
		}
	}
	return s
}

// Validate checks eligibility of a code against the given cart total and
// returns the matching coupon without applying it.
func (s *Service) Validate(_ context.Context, code string, total decimal.Decimal) (Coupon, error) {
	key := normalizeCode(code)
	c, ok := s.available[key]
	if key == "" || !ok {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeRuleViolation, MsgInvalidCode)
	}
	if c.Expires != nil && c.Expires.Before(s.now()) {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeRuleViolation, MsgExpired)
	}
	if c.MinTotal != nil && total.LessThan(*c.MinTotal) {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeRuleViolation, MsgMinimumNotMet).
			WithDetails(map[string]any{"minTotal": c.MinTotal.String()})
	}
	if discountFor(c, total).LessThanOrEqual(decimal.Zero) {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeRuleViolation, MsgNoEffect)
	}
	return c, nil
}

// Apply re-runs validation and, on success, installs the coupon as the single
// applied coupon, replacing any previous one.
func (s *Service) Apply(ctx context.Context, code string, total decimal.Decimal) (Coupon, error) {
	c, err := s.Validate(ctx, code, total)
	if err != nil {
		return Coupon{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	applied := c
	s.applied = &applied
	s.persist(ctx)
	return c, nil
}

// Applied returns the currently applied coupon, if any.
func (s *Service) Applied(_ context.Context) (Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return Coupon{}, false
	}
	return *s.applied, true
}

// Clear removes the applied coupon.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
	s.persist(ctx)
}

// DiscountForTotal recomputes the applied coupon's discount against a possibly
// changed total: the minimum is re-checked, the cap re-applied, and the result
// floored at zero and bounded by the total itself.
func (s *Service) DiscountForTotal(_ context.Context, total decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied == nil {
		return decimal.Zero
	}
	return s.DiscountFor(*s.applied, total)
}

// DiscountFor computes what a specific coupon would take off the given total,
// with the same minimum, cap and bounding rules as DiscountForTotal. It does
// not consult or change the applied coupon.
func (s *Service) DiscountFor(c Coupon, total decimal.Decimal) decimal.Decimal {
	if c.MinTotal != nil && total.LessThan(*c.MinTotal) {
		return decimal.Zero
	}
	discount := discountFor(c, total)
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

func discountFor(c Coupon, total decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	if c.Type == enums.CouponTypePercent {
		discount = total.Mul(c.Value).Div(decimal.NewFromInt(100))
	} else {
		discount = c.Value
	}
	if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
		discount = *c.MaxDiscount
	}
	return discount
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) persist(ctx context.Context) {
	s.store.Save(ctx, couponKey, s.applied)
}
