package api

import (
	"storefront_server/api/admin"
	"storefront_server/api/debug"
	"storefront_server/api/health"
	"storefront_server/api/products"
	"storefront_server/api/settings"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes  *products.ProductRoutesManager
	settingsRoutes *settings.SettingsRoutesManager
	healthRoutes   *health.HealthRoutesManager
	adminRoutes    *admin.AdminRoutesManager
	debugRoutes    *debug.DebugRoutesManager
}

func NewRouterManager(
	productRoutes *products.ProductRoutesManager,
	settingsRoutes *settings.SettingsRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	adminRoutes *admin.AdminRoutesManager,
	debugRoutes *debug.DebugRoutesManager,
) *routerManager {
	return &routerManager{
		productRoutes:  productRoutes,
		settingsRoutes: settingsRoutes,
		healthRoutes:   healthRoutes,
		adminRoutes:    adminRoutes,
		debugRoutes:    debugRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.settingsRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
