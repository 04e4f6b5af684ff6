package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	// Advancing the generation hides cached listings even if the flush fails.
	if err := drm.productService.InvalidateCaches(); err != nil {
		drm.logger.Warn("Failed to invalidate product caches", gecho.Field("error", err))
	}

	if err := drm.cacheService.ClearAll(); err != nil {
		drm.logger.Error("Failed to clear cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}
