package services

import (
	"fmt"
	"storefront_server/catalog"
	"storefront_server/database"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

type ServiceManager struct {
	AuthService     *AuthService
	CacheService    *CacheService
	HealthService   *HealthService
	ProductService  *ProductService
	SettingsService *SettingsService
}

// NewServiceManager wires the services onto the configured stores. db may
// be nil only with CATALOG_STORE=memory; redisClient may be nil to run
// without a cache.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, redisClient *redis.Client) (*ServiceManager, error) {
	cacheService := NewCacheService(logger, cfg.Cache, redisClient)

	var (
		productStore  ProductStore
		settingsStore SettingsStore
	)
	switch cfg.Catalog.Store {
	case "memory":
		productStore = catalog.NewMemoryStore(catalog.FallbackProducts())
		settingsStore = NewMemorySettingsStore()
	case "", "postgres":
		if db == nil {
			return nil, fmt.Errorf("catalog store %q requires a database", "postgres")
		}
		productStore = database.NewProductStore(db)
		settingsStore = database.NewSettingsStore(db)
	default:
		return nil, fmt.Errorf("unknown catalog store %q", cfg.Catalog.Store)
	}

	return &ServiceManager{
		AuthService:     NewAuthService(cfg.Auth, logger),
		CacheService:    cacheService,
		HealthService:   NewHealthService(logger, db, cacheService),
		ProductService:  NewProductService(logger, productStore, cacheService, cfg.Catalog),
		SettingsService: NewSettingsService(logger, settingsStore, cacheService),
	}, nil
}
