package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/types"
)

func newTestService(t *testing.T) (*Service, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	svc := NewService(context.Background(), store, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, store
}

func testAddress() types.Address {
	return types.Address{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Line1:      "1 Analytical Way",
		City:       "London",
		PostalCode: "SW1",
		Country:    "UK",
	}
}

func testItems() []cart.Item {
	return []cart.Item{
		{ProductID: 1, Title: "Headphones", Price: decimal.RequireFromString("99.99"), Quantity: 2},
		{ProductID: 2, Title: "Mug", Price: decimal.RequireFromString("5.50"), Quantity: 1},
	}
}

func TestPlaceSnapshotsCartAndSumsTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1700000000000", order.ID)
	assert.Equal(t, enums.OrderStatusPlaced, order.Status)
	assert.Equal(t, "U-1", order.UserID)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("205.48")),
		"expected 2*99.99 + 5.50, got %s", order.Total)
}

func TestPlaceValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "", testAddress(), testItems())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "missing user: %v", err)

	_, err = svc.Place(ctx, "U-1", testAddress(), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "empty cart: %v", err)
}

func TestPlaceIDsNeverCollide(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	second, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1700000000000", first.ID)
	assert.Equal(t, "ORD-1700000000001", second.ID)
}

func TestOrdersAreNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	second, err := svc.Place(ctx, "U-2", testAddress(), testItems())
	require.NoError(t, err)

	all := svc.GetAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestGetByUserIDFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	mine, err := svc.Place(ctx, "U-2", testAddress(), testItems())
	require.NoError(t, err)

	got := svc.GetByUserID(ctx, "U-2")
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	assert.Empty(t, svc.GetByUserID(ctx, "U-3"))
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	placed, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)

	_, err = svc.GetByID(ctx, "ORD-0")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "unexpected error %v", err)
}

func TestCancelOnlyFromPlaced(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	// Cancelling again is a no-op.
	again, err := svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, again.Status)

	shipped, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, shipped.ID, enums.OrderStatusShipped)
	require.NoError(t, err)

	unchanged, err := svc.Cancel(ctx, shipped.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, unchanged.Status)
}

func TestCancelledIsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, order.ID)
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, got.Status)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, got.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "teleported")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "unexpected error %v", err)

	_, err = svc.UpdateStatus(ctx, "ORD-0", enums.OrderStatusShipped)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "unexpected error %v", err)
}

func TestOrdersSurviveReload(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	first := NewService(ctx, store, nil)
	first.now = func() time.Time { return time.UnixMilli(1700000000000) }
	placed, err := first.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)

	second := NewService(ctx, store, nil)
	got, err := second.GetByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(placed.Total))
	assert.Equal(t, placed.Items, got.Items)

	// The id watermark is restored so new ids continue past persisted ones.
	second.now = func() time.Time { return time.UnixMilli(1700000000000) }
	next, err := second.Place(ctx, "U-1", testAddress(), testItems())
	require.NoError(t, err)
	assert.Equal(t, "ORD-1700000000001", next.ID)
}

func TestCorruptDocumentStartsEmpty(t *testing.T) {
	store := kvstore.NewMemory()
	store.SeedRaw(storeKey, []byte("[{broken"))
	svc := NewService(context.Background(), store, nil)
	assert.Empty(t, svc.GetAll(context.Background()))
}
