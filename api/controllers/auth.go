package controllers

import (
	"net/http"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/identity"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=customer seller admin"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates an account and returns the installed session.
func AuthRegister(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body registerPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body.Name, body.Email, body.Password, enums.UserRole(body.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"user":  user,
			"token": svc.Token(r.Context()),
		})
	}
}

// AuthLogin verifies credentials and returns the installed session.
func AuthLogin(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body loginPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"user":  user,
			"token": svc.Token(r.Context()),
		})
	}
}

// AuthLogout clears the session. Logging out while logged out is fine.
func AuthLogout(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}
		svc.Logout(r.Context())
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthSession reports the current session state without requiring a token, so
// clients can restore their view of who is signed in.
func AuthSession(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		user, ok := svc.CurrentUser(r.Context())
		if !ok {
			responses.WriteSuccess(w, map[string]any{"authenticated": false})
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"authenticated": true,
			"user":          user,
			"token":         svc.Token(r.Context()),
		})
	}
}
