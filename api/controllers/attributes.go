package controllers

import (
	"net/http"

	"github.com/angelmondragon/productmgmt-backend/api/responses"
	"github.com/angelmondragon/productmgmt-backend/api/validators"
	product "github.com/angelmondragon/productmgmt-backend/internal/products"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
)

func MergeAttributes(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload product.MergeAttributesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merged, err := svc.MergeAttributes(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, merged)
	}
}
