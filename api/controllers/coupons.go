package controllers

import (
	"net/http"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/coupon"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type couponPayload struct {
	Code string `json:"code" validate:"required"`
}

// CouponsValidate checks a code against the current cart total without
// applying it.
func CouponsValidate(couponSvc *coupon.Service, cartSvc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if couponSvc == nil || cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var body couponPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total := cartSvc.TotalPrice(r.Context())
		c, err := couponSvc.Validate(r.Context(), body.Code, total)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"coupon":   c,
			"discount": couponSvc.DiscountFor(c, total),
		})
	}
}

// CouponsApply validates and installs a code; the previous coupon survives a
// rejected replacement.
func CouponsApply(couponSvc *coupon.Service, cartSvc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if couponSvc == nil || cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var body couponPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total := cartSvc.TotalPrice(r.Context())
		c, err := couponSvc.Apply(r.Context(), body.Code, total)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"coupon":   c,
			"discount": couponSvc.DiscountForTotal(r.Context(), total),
		})
	}
}

// CouponsApplied returns the installed coupon, if any.
func CouponsApplied(couponSvc *coupon.Service, cartSvc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if couponSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		applied, ok := couponSvc.Applied(r.Context())
		if !ok {
			responses.WriteSuccess(w, map[string]any{"applied": false})
			return
		}

		view := map[string]any{"applied": true, "coupon": applied}
		if cartSvc != nil {
			view["discount"] = couponSvc.DiscountForTotal(r.Context(), cartSvc.TotalPrice(r.Context()))
		}
		responses.WriteSuccess(w, view)
	}
}

// CouponsClear removes the installed coupon.
func CouponsClear(couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if couponSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		couponSvc.Clear(r.Context())
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
