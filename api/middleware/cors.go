package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/productmgmt-backend/pkg/types"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local back office
	"http://localhost:8080", // local zed gui
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", types.RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{types.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
