package auth

import (
	"time"

	"github.com/gallerieapp/gallerie-server/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"user_name"`
	Role     domain.Role `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin checks whether the token carries the admin role.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
