package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
)

func newTestService(t *testing.T) (*Service, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	return NewService(context.Background(), store, nil, false), store
}

func sampleInput(title, category string) ProductInput {
	return ProductInput{
		Title:    title,
		Price:    decimal.RequireFromString("10.00"),
		Category: category,
		Stock:    5,
	}
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleInput("First", "Toys"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, sampleInput("Second", "Toys"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", first.ID, second.ID)
	}
}

func TestDeletedIDsAreNeverReused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, sampleInput("A", "Toys"))
	b, _ := svc.Create(ctx, sampleInput("B", "Toys"))
	svc.Delete(ctx, b.ID)

	c, err := svc.Create(ctx, sampleInput("C", "Toys"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 3 {
		t.Fatalf("deleting the newest product must not free its id: got %d", c.ID)
	}

	svc.Delete(ctx, 1)
	d, _ := svc.Create(ctx, sampleInput("D", "Toys"))
	if d.ID != 4 {
		t.Fatalf("ids must keep increasing and leave gaps: got %d", d.ID)
	}
}

func TestUpdateUnknownProductFails(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 99, sampleInput("Ghost", "Toys"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleInput("  ", "Toys")); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("blank title should fail validation, got %v", err)
	}

	bad := sampleInput("Thing", "Toys")
	bad.Price = decimal.RequireFromString("-1")
	if _, err := svc.Create(ctx, bad); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("negative price should fail validation, got %v", err)
	}
}

func TestAddReviewUnknownProductIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.AddReview(ctx, 42, Review{User: "N", Rating: 5, Comment: "x", Date: "2025-01-01"})

	if got := svc.List(ctx); len(got) != 0 {
		t.Fatalf("no products expected, got %d", len(got))
	}
}

func TestAddReviewAppends(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _ := svc.Create(ctx, sampleInput("Camera", "Electronics"))
	svc.AddReview(ctx, p.ID, Review{User: "A", Rating: 4, Comment: "nice", Date: "2025-02-02"})
	svc.AddReview(ctx, p.ID, Review{User: "B", Rating: 5, Comment: "great", Date: "2025-02-03"})

	got, ok := svc.GetByID(ctx, p.ID)
	if !ok {
		t.Fatalf("product should exist")
	}
	if len(got.Reviews) != 2 || got.Reviews[0].User != "A" || got.Reviews[1].User != "B" {
		t.Fatalf("reviews must append in order: %+v", got.Reviews)
	}
}

func TestCategoriesDerivedSortedAndRecomputed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, sampleInput("Z", "Zebra"))
	svc.Create(ctx, sampleInput("A", "Apple"))

	got := svc.Categories(ctx)
	if len(got) != 2 || got[0] != "Apple" || got[1] != "Zebra" {
		t.Fatalf("categories must be sorted: %v", got)
	}
}

func TestAddCategoryIsIdempotentAndKeepsEmptyCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.AddCategory(ctx, " Gifts ")
	svc.AddCategory(ctx, "Gifts")
	svc.AddCategory(ctx, "")

	got := svc.Categories(ctx)
	if len(got) != 1 || got[0] != "Gifts" {
		t.Fatalf("expected single trimmed category, got %v", got)
	}
}

func TestRenameCategoryReassignsProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _ := svc.Create(ctx, sampleInput("Lamp", "Home"))
	svc.Create(ctx, sampleInput("Sofa", "Furniture"))

	svc.RenameCategory(ctx, "Home", "Household")

	got, _ := svc.GetByID(ctx, p.ID)
	if got.Category != "Household" {
		t.Fatalf("expected reassignment, got %q", got.Category)
	}
	cats := svc.Categories(ctx)
	if cats[0] != "Furniture" || cats[1] != "Household" {
		t.Fatalf("unexpected categories %v", cats)
	}

	// Blank or identical arguments leave everything untouched.
	svc.RenameCategory(ctx, "Household", "Household")
	svc.RenameCategory(ctx, "", "X")
	if got, _ := svc.GetByID(ctx, p.ID); got.Category != "Household" {
		t.Fatalf("no-op rename changed category to %q", got.Category)
	}
}

func TestDeleteCategoryReassignsToUncategorized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _ := svc.Create(ctx, sampleInput("Lamp", "Home"))
	svc.DeleteCategory(ctx, "Home")

	got, _ := svc.GetByID(ctx, p.ID)
	if got.Category != UncategorizedLabel {
		t.Fatalf("expected %q, got %q", UncategorizedLabel, got.Category)
	}
	cats := svc.Categories(ctx)
	if len(cats) != 1 || cats[0] != UncategorizedLabel {
		t.Fatalf("unexpected categories %v", cats)
	}
}

func TestSeedDemoCatalogOnEmptyStore(t *testing.T) {
	store := kvstore.NewMemory()
	svc := NewService(context.Background(), store, nil, true)

	products := svc.List(context.Background())
	if len(products) != 8 {
		t.Fatalf("expected demo catalog, got %d products", len(products))
	}
	cats := svc.Categories(context.Background())
	if len(cats) != 4 {
		t.Fatalf("expected 4 derived categories, got %v", cats)
	}
}

func TestReloadRoundTrip(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	svc := NewService(ctx, store, nil, false)
	created, _ := svc.Create(ctx, sampleInput("Kettle", "Home"))
	svc.AddReview(ctx, created.ID, Review{User: "R", Rating: 5, Comment: "hot", Date: "2025-03-01"})

	reloaded := NewService(ctx, store, nil, false)
	products := reloaded.List(ctx)
	if len(products) != 1 {
		t.Fatalf("expected 1 product after reload, got %d", len(products))
	}
	got := products[0]
	if got.ID != created.ID || got.Title != "Kettle" || len(got.Reviews) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Price.Equal(created.Price) {
		t.Fatalf("price must survive the round trip exactly: %s", got.Price)
	}
}

func TestCorruptProductsDocumentFallsBackToDefaults(t *testing.T) {
	store := kvstore.NewMemory()
	store.SeedRaw("storefront_products_v1", []byte(`{not json`))

	svc := NewService(context.Background(), store, nil, true)
	if got := svc.List(context.Background()); len(got) != 8 {
		t.Fatalf("corrupt document should fall back to demo catalog, got %d", len(got))
	}
}

func TestMissingStockRepairsToDefault(t *testing.T) {
	store := kvstore.NewMemory()
	store.SeedRaw("storefront_products_v1", []byte(`[{"id":1,"title":"Old","price":"5","category":"Misc","reviews":[]}]`))

	svc := NewService(context.Background(), store, nil, false)
	got, ok := svc.GetByID(context.Background(), 1)
	if !ok {
		t.Fatalf("expected migrated product")
	}
	if got.Stock != defaultStock {
		t.Fatalf("missing stock should repair to %d, got %d", defaultStock, got.Stock)
	}
}
