package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps the bun database handle
type DB struct {
	*bun.DB
}

var instance *DB

// QueryDuration observes every statement by operation (SELECT, INSERT...).
var QueryDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// DSN builds a postgres URL understood by both pgdriver and pgx.
func DSN(cfg *structs.DatabaseConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

func openSQL(cfg *structs.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "pgx":
		connCfg, err := pgx.ParseConfig(DSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("invalid database config: %w", err)
		}
		return stdlib.OpenDB(*connCfg), nil
	case "", "pgdriver":
		return sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(DSN(cfg)),
			pgdriver.WithReadTimeout(cfg.ReadTimeout),
			pgdriver.WithWriteTimeout(cfg.WriteTimeout),
		)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the pool, applies the pool limits and pings the server.
func Connect(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	db := NewDB(sqldb, logger, cfg.SlowQuery)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("driver", cfg.Driver), gecho.Field("host", cfg.Host))
	return db, nil
}

// NewDB wraps an open *sql.DB in bun with the postgres dialect.
func NewDB(sqldb *sql.DB, logger *gecho.Logger, slowQuery time.Duration) *DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&queryHook{logger: logger, slow: slowQuery})
	return &DB{db}
}

// Initialize sets up the global database instance
func Initialize(cfg *structs.DatabaseConfig, logger *gecho.Logger) error {
	db, err := Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	instance = db
	return nil
}

// GetInstance returns the global database instance, or nil before Initialize.
func GetInstance() *DB {
	return instance
}

func CloseInstance() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

type queryHook struct {
	logger *gecho.Logger
	slow   time.Duration
}

func (h *queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	QueryDuration.WithLabelValues(event.Operation()).Observe(duration.Seconds())

	if h.logger == nil {
		return
	}
	if h.slow > 0 && duration > h.slow {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && isRetryableError(event.Err) {
		h.logger.Error("Database connection error",
			gecho.Field("error", event.Err),
			gecho.Field("operation", event.Operation()),
		)
	}
}
