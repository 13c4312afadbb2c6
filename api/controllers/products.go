package controllers

import (
	"net/http"

	"github.com/angelmondragon/productmgmt-backend/api/responses"
	"github.com/angelmondragon/productmgmt-backend/api/validators"
	product "github.com/angelmondragon/productmgmt-backend/internal/products"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
)

// CreateProduct handles the add-product form submission.
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload product.SubmitProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSKU(ctx, payload.SKU)
		}

		created, err := svc.SubmitProduct(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
