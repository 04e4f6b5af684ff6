package config

import (
	"storefront_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Storefront_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			LogLevel:       getEnvAsString("LOG_LEVEL", ""),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
		},
		Database: &structs.DatabaseConfig{
			Driver:       getEnvAsString("DB_DRIVER", "pgdriver"),
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "storefront_db"),
			SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", 100*time.Millisecond),
		},
		Cache: &structs.CacheConfig{
			Enabled:         getEnvAsBool("CACHE_ENABLED", false),
			Host:            getEnvAsString("REDIS_HOST", "localhost"),
			Port:            getEnvAsInt("REDIS_PORT", 6379),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ProductTTL:      getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 10*time.Minute),
			ProductListTTL:  getEnvAsTimeDuration("CACHE_PRODUCT_LIST_TTL", 2*time.Minute),
			SettingsTTL:     getEnvAsTimeDuration("CACHE_SETTINGS_TTL", 10*time.Minute),
			RetryAttempts:   getEnvAsInt("CACHE_RETRY_ATTEMPTS", 3),
			RetryDelay:      getEnvAsTimeDuration("CACHE_RETRY_DELAY", 50*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("CACHE_MAX_RETRY_BACKOFF", 500*time.Millisecond),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", false),
			RequestsPerWindow: getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
			Window:            getEnvAsTimeDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Auth: &structs.AuthConfig{
			JWTSecret:  getEnvAsString("AUTH_JWT_SECRET", "default_jwt_secret"),
			AdminRoles: getEnvAsSlice("AUTH_ADMIN_ROLES", []string{"admin"}),
		},
		Catalog: &structs.CatalogConfig{
			Store:           getEnvAsString("CATALOG_STORE", "postgres"),
			DefaultPageSize: getEnvAsInt("CATALOG_DEFAULT_PAGE_SIZE", 12),
			MaxPageSize:     getEnvAsInt("CATALOG_MAX_PAGE_SIZE", 1000),
			SuggestLimit:    getEnvAsInt("CATALOG_SUGGEST_LIMIT", 5),
		},
	}
}

func GetLogLevel() string {
	return LogLevel(GetConfig())
}

// LogLevel returns LOG_LEVEL when set, otherwise info in production and
// debug everywhere else.
func LogLevel(cfg *structs.Config) string {
	if cfg.Server.LogLevel != "" {
		return cfg.Server.LogLevel
	}
	if cfg.Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
