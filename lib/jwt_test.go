package lib

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestParseTokenRoundTrip(t *testing.T) {
	token, err := SignToken("user-1", "admin", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Sub != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenPrefersAppMetadataRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          "user-2",
		"role":         "authenticated",
		"app_metadata": map[string]any{"role": "admin"},
		"exp":          time.Now().Add(time.Minute).Unix(),
	})
	signed, _ := token.SignedString([]byte(testSecret))

	claims, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin, got %q", claims.Role)
	}
}

func TestParseTokenRejects(t *testing.T) {
	expired, _ := SignToken("user-1", "admin", testSecret, -time.Minute)
	wrongKey, _ := SignToken("user-1", "admin", "other", time.Minute)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte(testSecret))

	for name, token := range map[string]string{"expired": expired, "wrong key": wrongKey, "no exp": noExp, "garbage": "abc"} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(token, testSecret); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := BearerToken(r); err == nil {
		t.Fatal("expected an error without a header")
	}

	r.Header.Set("Authorization", "bearer abc.def")
	token, err := BearerToken(r)
	if err != nil || token != "abc.def" {
		t.Fatalf("expected abc.def, got %q (%v)", token, err)
	}
}
