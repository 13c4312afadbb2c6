package controllers

import (
	"net/http"

	"github.com/angelmondragon/productmgmt-backend/api/responses"
	"github.com/angelmondragon/productmgmt-backend/api/validators"
	product "github.com/angelmondragon/productmgmt-backend/internal/products"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
)

const maxSKULength = 255

// ProductPriceForm renders the price matrix of a stored product abstract.
func ProductPriceForm(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sku, err := validators.RequiredURLParam(r, "sku", maxSKULength)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSKU(ctx, sku)
		}

		view, err := svc.RenderPriceForm(ctx, sku)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// BuildPriceMatrix lays out posted price rows without touching storage.
func BuildPriceMatrix(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload product.BuildMatrixRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matrix, err := svc.BuildMatrix(r.Context(), payload.Entries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, matrix)
	}
}
