package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/internal/wishlist"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type toggleWishlistPayload struct {
	ProductID int `json:"productId" validate:"required"`
}

// WishlistGet returns the saved products, newest first.
func WishlistGet(svc *wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"products": svc.Products(r.Context()),
			"count":    svc.Count(r.Context()),
		})
	}
}

// WishlistToggle flips a product in or out of the wishlist.
func WishlistToggle(svc *wishlist.Service, catalogSvc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var body toggleWishlistPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := catalogSvc.GetByID(r.Context(), body.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		saved := svc.Toggle(r.Context(), product)
		responses.WriteSuccess(w, map[string]any{
			"saved": saved,
			"count": svc.Count(r.Context()),
		})
	}
}

// WishlistRemove drops a product; unknown ids are a no-op.
func WishlistRemove(svc *wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product id must be an integer"))
			return
		}

		svc.Remove(r.Context(), id)
		responses.WriteSuccess(w, map[string]any{"count": svc.Count(r.Context())})
	}
}

// WishlistClear empties the wishlist.
func WishlistClear(svc *wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		svc.Clear(r.Context())
		responses.WriteSuccess(w, map[string]any{"count": 0})
	}
}
