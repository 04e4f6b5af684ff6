package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.UpdateSettingsRequest](r)
	if err != nil {
		handling.HandleError(err, "error.settings.failedToUpdate", ar.logger, w)
		return
	}

	if err := ar.settingsService.UpdateSettings(r.Context(), body.Values()); err != nil {
		handling.HandleError(err, "error.settings.failedToUpdate", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(ar.settingsService.GetSettings(r.Context())),
		gecho.WithMessage("success.settings.updated"),
		gecho.Send(),
	)
}
