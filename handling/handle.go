package handling

import (
	"errors"
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleError writes the response matching err. Unexpected errors are
// logged and answered with a 500 carrying msg.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	var validationErr *lib.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return gecho.BadRequest(w,
			gecho.WithMessage("Please check the submitted information and try again"),
			gecho.WithData(validationErr.Errors),
		).Send()
	case errors.Is(err, lib.ErrInvalidInput), errors.Is(err, lib.ErrUnknownSetting):
		return gecho.BadRequest(w, gecho.WithMessage(err.Error())).Send()
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage("Resource not found")).Send()
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage("Resource already exists")).Send()
	case errors.Is(err, lib.ErrInvalidToken):
		return gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token")).Send()
	case errors.Is(err, lib.ErrForbidden):
		return gecho.Forbidden(w, gecho.WithMessage("Admin access required")).Send()
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
	return gecho.InternalServerError(w, gecho.WithMessage(msg)).Send()
}
