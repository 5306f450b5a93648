package controllers

import (
	"net/http"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/navigation"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type lastRoutePayload struct {
	Route string `json:"route" validate:"required"`
}

// NavigationGetLastRoute returns the remembered route, "" when none.
func NavigationGetLastRoute(svc *navigation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "navigation service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"route": svc.LastRoute(r.Context())})
	}
}

// NavigationSetLastRoute records the route; auth pages are silently skipped.
func NavigationSetLastRoute(svc *navigation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "navigation service unavailable"))
			return
		}

		var body lastRoutePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.SetLastRoute(r.Context(), body.Route)
		responses.WriteSuccess(w, map[string]string{"route": svc.LastRoute(r.Context())})
	}
}
