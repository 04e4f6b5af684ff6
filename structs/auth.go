package structs

import "time"

// AuthClaims is the verified subset of an access token issued by the
// hosted identity provider.
type AuthClaims struct {
	Sub   string    `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
}
