package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Auth      *AuthConfig
	Catalog   *CatalogConfig
}

type ServerConfig struct {
	AppName        string        // Storefront
	Environment    string        // development, production
	Port           string        // :8082
	LogLevel       string        // debug, info, warn, error
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64         // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
}

type DatabaseConfig struct {
	Driver       string // pgdriver, pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
}

type CacheConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Password        string
	DB              int
	PoolSize        int
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ProductTTL      time.Duration
	ProductListTTL  time.Duration
	SettingsTTL     time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxRetryBackoff time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	AdminRoles []string
}

type CatalogConfig struct {
	Store           string // postgres, memory
	DefaultPageSize int
	MaxPageSize     int
	SuggestLimit    int
}
