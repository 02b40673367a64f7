package domain

import "time"

type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex"`
	Email     string `json:"email" gorm:"uniqueIndex"` // always stored lowercase
	Password  string `json:"-"`                        // bcrypt hash; never returned in JSON
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// RefreshToken is the single live refresh token for this user. Every
	// issuance overwrites it, so a login elsewhere invalidates prior
	// sessions. This is intentional single-session behavior, not a
	// revocation list.
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EmailChange is a pending email-change request. UserID is the primary key,
// so at most one request is in flight per user; a new request replaces the
// old one via upsert.
type EmailChange struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	Email     string    `json:"email"` // requested new address, lowercase
	OTP       string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
