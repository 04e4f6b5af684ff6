package services

import (
	"fmt"
	"slices"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// AuthService verifies access tokens issued by the hosted identity
// provider. Sign-in itself happens there.
type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.AuthConfig
}

func NewAuthService(cfg *structs.AuthConfig, logger *gecho.Logger) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
	}
}

func (as *AuthService) VerifyAccessToken(token string) (*structs.AuthClaims, error) {
	claims, err := lib.ParseToken(token, as.cfg.JWTSecret)
	if err != nil {
		as.logger.Debug("Rejected access token", gecho.Field("error", err))
		return nil, err
	}
	return claims, nil
}

// RequireAdmin returns lib.ErrForbidden unless the claims carry an admin role.
func (as *AuthService) RequireAdmin(claims *structs.AuthClaims) error {
	if claims == nil || !slices.Contains(as.cfg.AdminRoles, claims.Role) {
		return fmt.Errorf("%w: admin role required", lib.ErrForbidden)
	}
	return nil
}
