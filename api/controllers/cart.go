package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/internal/coupon"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,min=1"`
}

type setQuantityPayload struct {
	Quantity int `json:"quantity"`
}

func cartProductID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product id must be an integer")
	}
	return id, nil
}

// cartView assembles the cart summary callers render: line items, the raw
// total, and the applied discount recomputed against the current total.
func cartView(r *http.Request, cartSvc *cart.Service, couponSvc *coupon.Service) map[string]any {
	ctx := r.Context()
	total := cartSvc.TotalPrice(ctx)
	view := map[string]any{
		"items":     cartSvc.Items(ctx),
		"itemCount": cartSvc.ItemCount(ctx),
		"total":     total,
	}
	if couponSvc != nil {
		discount := couponSvc.DiscountForTotal(ctx, total)
		view["discount"] = discount
		view["payable"] = total.Sub(discount)
		if applied, ok := couponSvc.Applied(ctx); ok {
			view["coupon"] = applied
		}
	}
	return view
}

// CartGet returns the cart with totals and any applied coupon.
func CartGet(cartSvc *cart.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, cartView(r, cartSvc, couponSvc))
	}
}

// CartAddItem snapshots the product into the cart, merging by product id.
func CartAddItem(cartSvc *cart.Service, catalogSvc *catalog.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body addCartItemPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := catalogSvc.GetByID(r.Context(), body.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		cartSvc.Add(r.Context(), cart.ItemFromProduct(product, body.Quantity))
		responses.WriteSuccessStatus(w, http.StatusCreated, cartView(r, cartSvc, couponSvc))
	}
}

// CartSetQuantity sets a line's quantity; zero or less removes the line.
func CartSetQuantity(cartSvc *cart.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setQuantityPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartSvc.SetQuantity(r.Context(), id, body.Quantity)
		responses.WriteSuccess(w, cartView(r, cartSvc, couponSvc))
	}
}

// CartRemoveItem drops a line; unknown products are a no-op.
func CartRemoveItem(cartSvc *cart.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		id, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartSvc.Remove(r.Context(), id)
		responses.WriteSuccess(w, cartView(r, cartSvc, couponSvc))
	}
}

// CartClear empties the cart.
func CartClear(cartSvc *cart.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		cartSvc.Clear(r.Context())
		responses.WriteSuccess(w, cartView(r, cartSvc, couponSvc))
	}
}
