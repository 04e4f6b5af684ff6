package debug

import (
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger         *gecho.Logger
	cacheService   *services.CacheService
	productService *services.ProductService
	production     bool
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, productService *services.ProductService, production bool) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:         logger,
		cacheService:   cacheService,
		productService: productService,
		production:     production,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if drm.production {
		return
	}
	r.Route("/debug", func(r chi.Router) {
		r.Post("/cache/clear", drm.ClearCache)
		r.Get("/cache/stats", drm.CacheStats)
	})
}
