package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

type SettingsStore interface {
	ListSettings(ctx context.Context) ([]tables.Setting, error)
	UpsertSettings(ctx context.Context, values map[string]string) error
}

type SettingsService struct {
	logger       *gecho.Logger
	store        SettingsStore
	cacheService *CacheService
}

func NewSettingsService(logger *gecho.Logger, store SettingsStore, cacheService *CacheService) *SettingsService {
	return &SettingsService{
		logger:       logger,
		store:        store,
		cacheService: cacheService,
	}
}

// GetSettings returns every stored key/value pair. A store failure yields
// an empty set rather than an error so pages can render without contacts.
func (ss *SettingsService) GetSettings(ctx context.Context) structs.SiteSettings {
	cached, err := ss.cacheService.GetSettings()
	if err != nil {
		ss.logger.Warn("Failed to get settings from cache", gecho.Field("error", err))
	} else if cached != nil {
		return cached
	}

	rows, err := ss.store.ListSettings(ctx)
	if err != nil {
		ss.logger.Warn("Settings store unavailable, returning empty settings", gecho.Field("error", err))
		return structs.SiteSettings{}
	}

	settings := make(structs.SiteSettings, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	go func() {
		if err := ss.cacheService.SetSettings(settings); err != nil {
			ss.logger.Warn("Failed to cache settings", gecho.Field("error", err))
		}
	}()
	return settings
}

func (ss *SettingsService) UpdateSetting(ctx context.Context, key, value string) error {
	return ss.UpdateSettings(ctx, map[string]string{key: value})
}

// UpdateSettings upserts the given pairs together. Unknown keys are
// rejected before anything is written.
func (ss *SettingsService) UpdateSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no settings given", lib.ErrInvalidInput)
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if !slices.Contains(structs.KnownSettings, key) {
			return fmt.Errorf("%w: %s", lib.ErrUnknownSetting, key)
		}
	}

	if err := ss.store.UpsertSettings(ctx, values); err != nil {
		ss.logger.Error("Failed to update settings", gecho.Field("error", err))
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := ss.cacheService.InvalidateSettings(); err != nil {
		ss.logger.Warn("Failed to invalidate settings cache", gecho.Field("error", err))
	}
	ss.logger.Info("Settings updated", gecho.Field("keys", slices.Sorted(maps.Keys(values))))
	return nil
}

// MemorySettingsStore keeps settings in process memory.
type MemorySettingsStore struct {
	mu   sync.RWMutex
	rows map[string]tables.Setting
}

func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{rows: make(map[string]tables.Setting)}
}

func (s *MemorySettingsStore) ListSettings(ctx context.Context) ([]tables.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]tables.Setting, 0, len(s.rows))
	for _, key := range slices.Sorted(maps.Keys(s.rows)) {
		rows = append(rows, s.rows[key])
	}
	return rows, nil
}

func (s *MemorySettingsStore) UpsertSettings(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for key, value := range values {
		s.rows[key] = tables.Setting{Key: key, Value: value, UpdatedAt: now}
	}
	return nil
}
