package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newTestService() *Service {
	return NewService(context.Background(), kvstore.NewMemory(), nil)
}

func expectReason(t *testing.T, err error, msg string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeRuleViolation {
		t.Fatalf("expected rule violation, got %s", typed.Code())
	}
	if typed.Message() != msg {
		t.Fatalf("expected reason %q, got %q", msg, typed.Message())
	}
}

func TestValidateUnknownOrBlankCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Validate(ctx, "", dec("100"))
	expectReason(t, err, MsgInvalidCode)

	_, err = svc.Validate(ctx, "NOPE", dec("100"))
	expectReason(t, err, MsgInvalidCode)
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	svc := newTestService()

	c, err := svc.Validate(context.Background(), "  save10 ", dec("60"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Code != "SAVE10" {
		t.Fatalf("unexpected coupon %q", c.Code)
	}
}

func TestValidateMinimumNotMet(t *testing.T) {
	svc := newTestService()

	_, err := svc.Validate(context.Background(), "SAVE10", dec("40"))
	expectReason(t, err, MsgMinimumNotMet)

	c, err := svc.Validate(context.Background(), "SAVE10", dec("60"))
	if err != nil {
		t.Fatalf("validate at 60: %v", err)
	}
	if c.Type != enums.CouponTypePercent {
		t.Fatalf("unexpected type %s", c.Type)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := newTestService()
	past := time.Now().Add(-time.Hour)
	svc.available["OLD"] = Coupon{
		Code:    "OLD",
		Type:    enums.CouponTypeFixed,
		Value:   decimal.NewFromInt(5),
		Expires: &past,
	}

	_, err := svc.Validate(context.Background(), "OLD", dec("100"))
	expectReason(t, err, MsgExpired)
}

func TestValidateNoEffect(t *testing.T) {
	svc := newTestService()
	svc.available["ZERO"] = Coupon{
		Code:  "ZERO",
		Type:  enums.CouponTypeFixed,
		Value: decimal.Zero,
	}

	_, err := svc.Validate(context.Background(), "ZERO", dec("100"))
	expectReason(t, err, MsgNoEffect)
}

func TestApplyReplacesPreviousCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "WELCOME5", dec("20")); err != nil {
		t.Fatalf("apply welcome5: %v", err)
	}
	if _, err := svc.Apply(ctx, "SAVE10", dec("60")); err != nil {
		t.Fatalf("apply save10: %v", err)
	}

	applied, ok := svc.Applied(ctx)
	if !ok || applied.Code != "SAVE10" {
		t.Fatalf("expected SAVE10 applied, got %+v ok=%v", applied, ok)
	}
}

func TestApplyRejectedLeavesPreviousCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Apply(ctx, "WELCOME5", dec("20"))
	if _, err := svc.Apply(ctx, "SAVE10", dec("10")); err == nil {
		t.Fatalf("expected minimum rejection")
	}

	applied, ok := svc.Applied(ctx)
	if !ok || applied.Code != "WELCOME5" {
		t.Fatalf("rejected apply must not replace the coupon: %+v", applied)
	}
}

func TestDiscountForTotalPercent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Apply(ctx, "SAVE10", dec("60"))

	if got := svc.DiscountForTotal(ctx, dec("60")); !got.Equal(dec("6")) {
		t.Fatalf("expected 6, got %s", got)
	}
	// Below the minimum the discount collapses to zero rather than freezing at
	// its apply-time value.
	if got := svc.DiscountForTotal(ctx, dec("40")); !got.IsZero() {
		t.Fatalf("expected 0 below minimum, got %s", got)
	}
	// Monotonically non-decreasing in total.
	if got := svc.DiscountForTotal(ctx, dec("90")); !got.Equal(dec("9")) {
		t.Fatalf("expected 9, got %s", got)
	}
}

func TestDiscountForTotalCap(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Apply(ctx, "BIGSAVE20", dec("300"))

	if got := svc.DiscountForTotal(ctx, dec("300")); !got.Equal(dec("50")) {
		t.Fatalf("expected cap at 50, got %s", got)
	}
	if got := svc.DiscountForTotal(ctx, dec("1000")); !got.Equal(dec("50")) {
		t.Fatalf("cap must hold for any larger total, got %s", got)
	}
}

func TestDiscountNeverExceedsTotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Apply(ctx, "WELCOME5", dec("20"))

	if got := svc.DiscountForTotal(ctx, dec("3")); !got.Equal(dec("3")) {
		t.Fatalf("discount must be bounded by the total, got %s", got)
	}
}

func TestDiscountWithoutAppliedCouponIsZero(t *testing.T) {
	svc := newTestService()
	if got := svc.DiscountForTotal(context.Background(), dec("100")); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestClearRemovesAppliedCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Apply(ctx, "WELCOME5", dec("20"))
	svc.Clear(ctx)

	if _, ok := svc.Applied(ctx); ok {
		t.Fatalf("expected no applied coupon")
	}
}

func TestAppliedCouponSurvivesReload(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	svc := NewService(ctx, store, nil)
	svc.Apply(ctx, "SAVE10", dec("60"))

	reloaded := NewService(ctx, store, nil)
	applied, ok := reloaded.Applied(ctx)
	if !ok || applied.Code != "SAVE10" {
		t.Fatalf("expected SAVE10 after reload, got %+v ok=%v", applied, ok)
	}
}

func TestUnknownPersistedCouponDiscardedOnReload(t *testing.T) {
	store := kvstore.NewMemory()
	store.SeedRaw("storefront_coupon_v1", []byte(`{"code":"RETIRED","type":"fixed","value":"5"}`))

	svc := NewService(context.Background(), store, nil)
	if _, ok := svc.Applied(context.Background()); ok {
		t.Fatalf("coupon no longer in the catalog must not survive reload")
	}
}
