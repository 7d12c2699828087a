package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/balcao-erp/balcao-erp/internal/analytics/http"
	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/customers"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
	"github.com/balcao-erp/balcao-erp/internal/pos"
	"github.com/balcao-erp/balcao-erp/internal/purchasing"
	"github.com/balcao-erp/balcao-erp/internal/serviceorders"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	CatalogHandler       *catalog.Handler
	CustomersHandler     *customers.Handler
	InventoryHandler     *inventory.Handler
	POSHandler           *pos.Handler
	CashbookHandler      *cashbook.Handler
	ServiceOrdersHandler *serviceorders.Handler
	PurchasingHandler    *purchasing.Handler
	AnalyticsHandler     *analytichttp.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(api)
		}
		if params.CustomersHandler != nil {
			params.CustomersHandler.MountRoutes(api)
		}
		if params.InventoryHandler != nil {
			params.InventoryHandler.MountRoutes(api)
		}
		if params.POSHandler != nil {
			params.POSHandler.MountRoutes(api)
		}
		if params.CashbookHandler != nil {
			params.CashbookHandler.MountRoutes(api)
		}
		if params.ServiceOrdersHandler != nil {
			params.ServiceOrdersHandler.MountRoutes(api)
		}
		if params.PurchasingHandler != nil {
			params.PurchasingHandler.MountRoutes(api)
		}
		if params.AnalyticsHandler != nil {
			params.AnalyticsHandler.MountRoutes(api)
		}
	})

	return r
}
