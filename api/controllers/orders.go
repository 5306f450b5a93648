package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront-backend/api/middleware"
	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/coupon"
	"github.com/oakline/storefront-backend/internal/orders"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
	"github.com/oakline/storefront-backend/pkg/types"
)

type placeOrderPayload struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// OrdersPlace snapshots the cart into a new order, then clears the cart and
// the applied coupon. The caller invokes this only after its external payment
// step reports success.
func OrdersPlace(ordersSvc *orders.Service, cartSvc *cart.Service, couponSvc *coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil || cartSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body placeOrderPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address := types.Address{
			Name:       body.Name,
			Email:      body.Email,
			Phone:      body.Phone,
			Line1:      body.Line1,
			Line2:      body.Line2,
			City:       body.City,
			State:      body.State,
			PostalCode: body.PostalCode,
			Country:    body.Country,
		}

		userID := middleware.UserIDFromContext(r.Context())
		order, err := ordersSvc.Place(r.Context(), userID, address, cartSvc.Items(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartSvc.Clear(r.Context())
		if couponSvc != nil {
			couponSvc.Clear(r.Context())
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": order})
	}
}

// OrdersList returns the caller's orders, or every order for an admin asking
// with ?all=1.
func OrdersList(ordersSvc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		ctx := r.Context()
		if r.URL.Query().Get("all") == "1" {
			if middleware.RoleFromContext(ctx) != enums.UserRoleAdmin {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			responses.WriteSuccess(w, map[string]any{"orders": ordersSvc.GetAll(ctx)})
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		list := ordersSvc.GetByUserID(ctx, userID)
		if list == nil {
			list = []orders.Order{}
		}
		responses.WriteSuccess(w, map[string]any{"orders": list})
	}
}

// OrdersGet returns one order. Non-admins can only see their own.
func OrdersGet(ordersSvc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		order, err := ordersSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := middleware.RoleFromContext(r.Context())
		if role != enums.UserRoleAdmin && order.UserID != middleware.UserIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "not your order"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// OrdersCancel cancels a PLACED order; any other status comes back unchanged.
func OrdersCancel(ordersSvc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id := chi.URLParam(r, "id")
		existing, err := ordersSvc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := middleware.RoleFromContext(r.Context())
		if role != enums.UserRoleAdmin && existing.UserID != middleware.UserIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "not your order"))
			return
		}

		order, err := ordersSvc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// OrdersUpdateStatus sets an order's fulfilment status.
func OrdersUpdateStatus(ordersSvc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body orderStatusPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := ordersSvc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}
