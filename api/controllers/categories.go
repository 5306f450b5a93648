package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/storefront-backend/api/responses"
	"github.com/oakline/storefront-backend/api/validators"
	"github.com/oakline/storefront-backend/internal/catalog"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/logger"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required"`
}

type renameCategoryPayload struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// CategoriesList returns the derived category list.
func CategoriesList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories(r.Context())})
	}
}

// CategoriesAdd registers a category name even before any product uses it.
func CategoriesAdd(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body categoryPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.AddCategory(r.Context(), body.Name)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"categories": svc.Categories(r.Context())})
	}
}

// CategoriesRename moves every product in the old category to the new name.
func CategoriesRename(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body renameCategoryPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.RenameCategory(r.Context(), body.From, body.To)
		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories(r.Context())})
	}
}

// CategoriesDelete reassigns the category's products to Uncategorized.
func CategoriesDelete(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		name := chi.URLParam(r, "name")
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category name is required"))
			return
		}

		svc.DeleteCategory(r.Context(), name)
		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories(r.Context())})
	}
}
