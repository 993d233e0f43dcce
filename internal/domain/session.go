package domain

import "time"

// Session tracks an authenticated device and its refresh token.
// The refresh token itself is never stored, only its SHA-256 hash.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
}

// IsExpired reports whether the session's refresh token is past its lifetime.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
