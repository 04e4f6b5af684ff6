package lib

import (
	"fmt"
	"net/http"
	"storefront_server/structs"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseToken verifies an HS256 access token and returns its claims.
// The role is read from app_metadata.role when present, else from role.
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if meta, ok := claims["app_metadata"].(map[string]any); ok {
		if metaRole, ok := meta["role"].(string); ok && metaRole != "" {
			role = metaRole
		}
	}
	email, _ := claims["email"].(string)

	out := &structs.AuthClaims{Sub: sub, Email: email, Role: role}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.Iat = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Exp = exp.Time
	}
	return out, nil
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: missing bearer token", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	token, err := BearerToken(r)
	if err != nil {
		return nil, err
	}
	return ParseToken(token, secret)
}

// SignToken issues an HS256 token. Used by tooling and tests; production
// tokens come from the identity provider.
func SignToken(sub, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
