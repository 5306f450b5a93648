package controllers

import (
	"net/http"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/preferences"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type themePayload struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// PreferencesGetTheme returns the stored theme.
func PreferencesGetTheme(svc *preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"theme": svc.Theme(r.Context())})
	}
}

// PreferencesSetTheme stores the theme.
func PreferencesSetTheme(svc *preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
			return
		}

		var body themePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.SetTheme(r.Context(), enums.Theme(body.Theme))
		responses.WriteSuccess(w, map[string]any{"theme": svc.Theme(r.Context())})
	}
}

// PreferencesToggleTheme flips between light and dark.
func PreferencesToggleTheme(svc *preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"theme": svc.Toggle(r.Context())})
	}
}
