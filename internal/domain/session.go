package domain

import "time"

// Session is one logged-in device. The refresh token itself is never
// stored; only its hash, so a leaked database cannot mint tokens.
type Session struct {
	Record
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
	UserAgent        string    `json:"user_agent,omitempty"`
	IP               string    `json:"ip,omitempty"`
}

// Expired checks whether the session can no longer be refreshed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
