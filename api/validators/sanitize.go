package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
)

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// RequiredURLParam reads a chi path parameter and rejects blank values.
func RequiredURLParam(r *http.Request, key string, maxLen int) (string, error) {
	value := SanitizeString(chi.URLParam(r, key), maxLen)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
