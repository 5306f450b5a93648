package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakline/storefront-backend/api/controllers"
	"github.com/oakline/storefront-backend/api/middleware"
	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/internal/coupon"
	"github.com/oakline/storefront-backend/internal/identity"
	"github.com/oakline/storefront-backend/internal/navigation"
	"github.com/oakline/storefront-backend/internal/orders"
	"github.com/oakline/storefront-backend/internal/preferences"
	"github.com/oakline/storefront-backend/internal/wishlist"
	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/enums"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
	"github.com/oakline/storefront-backend/pkg/metrics"
)

// Services bundles the engine's stores for the HTTP layer.
type Services struct {
	Catalog     *catalog.Service
	Identity    *identity.Service
	Cart        *cart.Service
	Coupon      *coupon.Service
	Orders      *orders.Service
	Wishlist    *wishlist.Service
	Navigation  *navigation.Service
	Preferences *preferences.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store kvstore.Store,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	auth := middleware.Auth(cfg.JWT, logg)
	staff := middleware.RequireRole(logg, enums.UserRoleSeller, enums.UserRoleAdmin)
	admin := middleware.RequireRole(logg, enums.UserRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Identity, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Identity, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Identity, logg))
		r.Get("/session", controllers.AuthSession(svcs.Identity, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(svcs.Catalog, logg))
		r.Get("/{id}", controllers.ProductsGet(svcs.Catalog, logg))
		r.With(auth, staff).Post("/", controllers.ProductsCreate(svcs.Catalog, logg))
		r.With(auth, staff).Put("/{id}", controllers.ProductsUpdate(svcs.Catalog, logg))
		r.With(auth, staff).Delete("/{id}", controllers.ProductsDelete(svcs.Catalog, logg))
		r.With(auth).Post("/{id}/reviews", controllers.ProductsAddReview(svcs.Catalog, logg))
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(svcs.Catalog, logg))
		r.With(auth, staff).Post("/", controllers.CategoriesAdd(svcs.Catalog, logg))
		r.With(auth, staff).Post("/rename", controllers.CategoriesRename(svcs.Catalog, logg))
		r.With(auth, staff).Delete("/{name}", controllers.CategoriesDelete(svcs.Catalog, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", controllers.CartGet(svcs.Cart, svcs.Coupon, logg))
		r.Post("/items", controllers.CartAddItem(svcs.Cart, svcs.Catalog, svcs.Coupon, logg))
		r.Put("/items/{productId}", controllers.CartSetQuantity(svcs.Cart, svcs.Coupon, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, svcs.Coupon, logg))
		r.Delete("/", controllers.CartClear(svcs.Cart, svcs.Coupon, logg))
	})

	r.Route("/api/v1/coupons", func(r chi.Router) {
		r.Post("/validate", controllers.CouponsValidate(svcs.Coupon, svcs.Cart, logg))
		r.Post("/apply", controllers.CouponsApply(svcs.Coupon, svcs.Cart, logg))
		r.Get("/applied", controllers.CouponsApplied(svcs.Coupon, svcs.Cart, logg))
		r.Delete("/applied", controllers.CouponsClear(svcs.Coupon, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", controllers.OrdersPlace(svcs.Orders, svcs.Cart, svcs.Coupon, logg))
		r.Get("/", controllers.OrdersList(svcs.Orders, logg))
		r.Get("/{id}", controllers.OrdersGet(svcs.Orders, logg))
		r.Post("/{id}/cancel", controllers.OrdersCancel(svcs.Orders, logg))
		r.With(staff).Put("/{id}/status", controllers.OrdersUpdateStatus(svcs.Orders, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(auth, admin)
		r.Get("/", controllers.UsersList(svcs.Identity, logg))
		r.Put("/{email}/role", controllers.UsersSetRole(svcs.Identity, logg))
		r.Delete("/{email}", controllers.UsersDelete(svcs.Identity, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Get("/", controllers.WishlistGet(svcs.Wishlist, logg))
		r.Post("/toggle", controllers.WishlistToggle(svcs.Wishlist, svcs.Catalog, logg))
		r.Delete("/{productId}", controllers.WishlistRemove(svcs.Wishlist, logg))
		r.Delete("/", controllers.WishlistClear(svcs.Wishlist, logg))
	})

	r.Route("/api/v1/navigation", func(r chi.Router) {
		r.Get("/last-route", controllers.NavigationGetLastRoute(svcs.Navigation, logg))
		r.Put("/last-route", controllers.NavigationSetLastRoute(svcs.Navigation, logg))
	})

	r.Route("/api/v1/preferences", func(r chi.Router) {
		r.Get("/theme", controllers.PreferencesGetTheme(svcs.Preferences, logg))
		r.Put("/theme", controllers.PreferencesSetTheme(svcs.Preferences, logg))
		r.Post("/theme/toggle", controllers.PreferencesToggleTheme(svcs.Preferences, logg))
	})

	return r
}
