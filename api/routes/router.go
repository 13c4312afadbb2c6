package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/productmgmt-backend/api/controllers"
	"github.com/angelmondragon/productmgmt-backend/api/middleware"
	product "github.com/angelmondragon/productmgmt-backend/internal/products"
	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
)

// NewRouter mounts the health, metrics and product pricing endpoints.
// redisP and metricsHandler may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	metricsHandler http.Handler,
	productService product.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if cfg.Metrics.Enabled && metricsHandler != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/products", controllers.CreateProduct(productService, logg))
		r.Get("/products/{sku}/prices", controllers.ProductPriceForm(productService, logg))
		r.Post("/prices/matrix", controllers.BuildPriceMatrix(productService, logg))
		r.Post("/attributes/merge", controllers.MergeAttributes(productService, logg))
	})

	return r
}
