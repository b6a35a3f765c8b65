package model

import "time"

// PlatformCredential stores the Douyin OAuth tokens for one user.
// Invariant: when AccessToken is set, ExpiresAt is set. The three token fields
// are only ever written together (initial authorization or refresh).
type PlatformCredential struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Platform     string     `json:"platform"`
	OpenID       *string    `json:"open_id,omitempty"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       string     `json:"scopes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Expired reports whether the access token must be refreshed before use.
func (c *PlatformCredential) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(*c.ExpiresAt)
}
