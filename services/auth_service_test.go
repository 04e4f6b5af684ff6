package services

import (
	"errors"
	"storefront_server/lib"
	"storefront_server/structs"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
)

func TestAuthServiceAdminCheck(t *testing.T) {
	as := NewAuthService(&structs.AuthConfig{JWTSecret: "secret", AdminRoles: []string{"admin", "owner"}}, gecho.NewDefaultLogger())

	token, _ := lib.SignToken("user-1", "owner", "secret", time.Minute)
	claims, err := as.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := as.RequireAdmin(claims); err != nil {
		t.Fatalf("expected owner to be admin, got %v", err)
	}

	if err := as.RequireAdmin(&structs.AuthClaims{Role: "authenticated"}); !errors.Is(err, lib.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := as.VerifyAccessToken("nope"); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
