package settings

import (
	"net/http"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type SettingsRoutesManager struct {
	settingsService *services.SettingsService
}

func NewSettingsRoutesManager(settingsService *services.SettingsService) *SettingsRoutesManager {
	return &SettingsRoutesManager{settingsService: settingsService}
}

func (srm *SettingsRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/settings", srm.GetSettings)
}

// GetSettings returns the public contact settings. Missing keys are absent.
func (srm *SettingsRoutesManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(srm.settingsService.GetSettings(r.Context())),
		gecho.Send(),
	)
}
