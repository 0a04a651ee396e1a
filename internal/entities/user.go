package entities

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessToken is one issued bearer credential. Only the SHA-256 hash of the
// plaintext token is stored; revoking a token deletes its row so other
// sessions of the same user stay valid.
type AccessToken struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	TokenHash string `gorm:"uniqueIndex;size:64" json:"-"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
