package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const (
	productsKey   = "storefront_products_v1"
	categoriesKey = "storefront_categories_v1"

	// UncategorizedLabel absorbs products whose category is deleted or renamed away.
	UncategorizedLabel = "Uncategorized"

	defaultStock = 100
)

// Review is an append-only shopper review attached to a product.
type Review struct {
	User    string `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

// Product is the catalog entity. Stock is advisory and never decremented by
// order placement.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Popularity  int             `json:"popularity"`
	Stock       int             `json:"stock"`
	Reviews     []Review        `json:"reviews"`
}

// ProductInput carries the caller-supplied fields for create and update.
type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	Description string
	Popularity  int
	Stock       int
}

// persistedProduct keeps Stock optional so documents written before stock
// tracking existed repair to the default on load.
type persistedProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Popularity  int             `json:"popularity"`
	Stock       *int            `json:"stock"`
	Reviews     []Review        `json:"reviews"`
}

// Service owns the product collection and the derived category list.
type Service struct {
	mu         sync.Mutex
	store      kvstore.Store
	logg       *logger.Logger
	products   []Product
	categories []string
	// lastID is the highest id ever assigned this session, so deleting the
	// newest product cannot cause its id to be handed out again.
	lastID int
}

// NewService reloads catalog state from the store, falling back to the demo
// catalog (when seeding is enabled) or an empty collection.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger, seedDemo bool) *Service {
	s := &Service{store: store, logg: logg}

	var persisted []persistedProduct
	if store.Load(ctx, productsKey, &persisted) && len(persisted) > 0 {
		s.products = make([]Product, 0, len(persisted))
		for _, p := range persisted {
			stock := defaultStock
			if p.Stock != nil {
				stock = *p.Stock
			}
			reviews := p.Reviews
			if reviews == nil {
				reviews = []Review{}
			}
			s.products = append(s.products, Product{
				ID:          p.ID,
				Title:       p.Title,
				Price:       p.Price,
				Category:    p.Category,
				ImageURL:    p.ImageURL,
				Description: p.Description,
				Popularity:  p.Popularity,
				Stock:       stock,
				Reviews:     reviews,
			})
		}
	} else if seedDemo {
		s.products = demoProducts()
	} else {
		s.products = []Product{}
	}

	var categories []string
	if store.Load(ctx, categoriesKey, &categories) && len(categories) > 0 {
		s.categories = categories
	} else {
		s.categories = s.deriveCategories()
	}

	for _, p := range s.products {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}

	return s
}

// List returns a snapshot of every product.
func (s *Service) List(_ context.Context) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProducts(s.products)
}

// GetByID returns a snapshot of one product.
func (s *Service) GetByID(_ context.Context, id int) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return copyProduct(p), true
		}
	}
	return Product{}, false
}

// Categories returns the current category list.
func (s *Service) Categories(_ context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...)
}

// Create assigns the next id (max existing + 1, never reused) and appends the
// product.
func (s *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	if err := validateInput(input); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          s.nextID(),
		Title:       input.Title,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Popularity:  input.Popularity,
		Stock:       input.Stock,
		Reviews:     []Review{},
	}
	s.products = append(s.products, product)
	s.refreshCategories()
	s.persist(ctx)
	return copyProduct(product), nil
}

// Update replaces the stored product with the same id.
func (s *Service) Update(ctx context.Context, id int, input ProductInput) (Product, error) {
	if err := validateInput(input); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	existing := s.products[idx]
	existing.Title = input.Title
	existing.Price = input.Price
	existing.Category = input.Category
	existing.ImageURL = input.ImageURL
	existing.Description = input.Description
	existing.Popularity = input.Popularity
	existing.Stock = input.Stock
	s.products[idx] = existing

	s.refreshCategories()
	s.persist(ctx)
	return copyProduct(existing), nil
}

// Delete removes the product. Its id is never reassigned.
func (s *Service) Delete(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.products = filtered
	s.refreshCategories()
	s.persist(ctx)
}

// AddReview appends a review to the product. Unknown ids are a no-op.
func (s *Service) AddReview(ctx context.Context, id int, review Review) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.products[idx].Reviews = append(s.products[idx].Reviews, review)
	s.persist(ctx)
}

// AddCategory unions the trimmed name into the category list. Blank names and
// duplicates are no-ops; the category may stay product-less until the next
// product mutation recomputes the list.
func (s *Service) AddCategory(ctx context.Context, name string) {
	n := strings.TrimSpace(name)
	if n == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c == n {
			return
		}
	}
	s.categories = append(s.categories, n)
	sort.Strings(s.categories)
	s.store.Save(ctx, categoriesKey, s.categories)
}

// RenameCategory reassigns every product in the old category and recomputes
// the list. Blank names or identical from/to are no-ops.
func (s *Service) RenameCategory(ctx context.Context, from, to string) {
	o := strings.TrimSpace(from)
	n := strings.TrimSpace(to)
	if o == "" || n == "" || o == n {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.Category == o {
			s.products[i].Category = n
		}
	}
	s.refreshCategories()
	s.persist(ctx)
}

// DeleteCategory moves affected products to the uncategorized label and
// recomputes the list.
func (s *Service) DeleteCategory(ctx context.Context, name string) {
	n := strings.TrimSpace(name)
	if n == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.Category == n {
			s.products[i].Category = UncategorizedLabel
		}
	}
	s.refreshCategories()
	s.persist(ctx)
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product stock must not be negative")
	}
	return nil
}

func (s *Service) nextID() int {
	max := s.lastID
	for _, p := range s.products {
		if p.ID > max {
			max = p.ID
		}
	}
	s.lastID = max + 1
	return s.lastID
}

func (s *Service) indexOf(id int) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) deriveCategories() []string {
	seen := map[string]struct{}{}
	var categories []string
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	if categories == nil {
		categories = []string{}
	}
	return categories
}

func (s *Service) refreshCategories() {
	s.categories = s.deriveCategories()
}

func (s *Service) persist(ctx context.Context) {
	s.store.Save(ctx, productsKey, s.products)
	s.store.Save(ctx, categoriesKey, s.categories)
}

func copyProducts(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = copyProduct(p)
	}
	return out
}

func copyProduct(p Product) Product {
	p.Reviews = append([]Review(nil), p.Reviews...)
	return p
}
