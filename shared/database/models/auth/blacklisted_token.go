package auth

import "time"

// BlacklistedToken is a revoked token kept until its own expiry.
type BlacklistedToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

func (BlacklistedToken) TableName() string {
	return "token_blacklist"
}
