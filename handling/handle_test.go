package handling

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"storefront_server/lib"
	"testing"

	"github.com/MonkyMars/gecho"
)

func TestHandleErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &lib.ValidationError{Errors: []lib.FieldError{{Field: "name", Message: "name is required"}}}, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: page", lib.ErrInvalidInput), http.StatusBadRequest},
		{"unknown setting", fmt.Errorf("%w: x", lib.ErrUnknownSetting), http.StatusBadRequest},
		{"not found", fmt.Errorf("failed: %w", lib.ErrNotFound), http.StatusNotFound},
		{"conflict", errors.Join(lib.ErrConflict, errors.New("duplicate key")), http.StatusConflict},
		{"token", lib.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", lib.ErrForbidden, http.StatusForbidden},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	logger := gecho.NewDefaultLogger()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(tt.err, "failed", logger, w)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
