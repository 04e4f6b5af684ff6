package admin

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	settingsService *services.SettingsService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	settingsService *services.SettingsService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		productService:  productService,
		settingsService: settingsService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)

		r.Get("/products", ar.ListAllProducts)
		r.Get("/products/{id}", ar.GetProduct)
		r.Post("/products", ar.CreateProduct)
		r.Patch("/products/{id}", ar.UpdateProduct)
		r.Delete("/products/{id}", ar.DeleteProduct)

		r.Put("/settings", ar.UpdateSettings)
	})
}
