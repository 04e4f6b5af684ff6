package services

import (
	"context"
	"errors"
	"runtime"
	"storefront_server/database"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type databaseHealthStatus struct {
	Configured     bool           `json:"configured"`
	Connected      bool           `json:"connected"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	OpenConns      int            `json:"open_conns"`
	InUseConns     int            `json:"in_use_conns"`
	Cache          map[string]any `json:"cache"`
}

var ErrDatabaseNotConfigured = errors.New("database not configured")

type HealthService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

// NewHealthService accepts a nil db when the catalog runs on the memory store.
func NewHealthService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *HealthService {
	return &HealthService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      totalMB - usedMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, error) {
	status := databaseHealthStatus{
		LastChecked: time.Now(),
		Cache:       hs.cacheService.GetConnectionStats(),
	}
	if hs.db == nil {
		return status, ErrDatabaseNotConfigured
	}
	status.Configured = true

	start := time.Now()
	err := hs.db.Health(ctx)
	status.ResponseTimeMs = time.Since(start).Milliseconds()
	status.Connected = err == nil

	stats := hs.db.GetStats()
	status.OpenConns = stats.OpenConnections
	status.InUseConns = stats.InUse

	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}
	return status, err
}
