package models

import "time"

// AccessToken is a revocable bearer credential. Only the SHA-256 hash of the
// secret is stored.
type AccessToken struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	TokenHash  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
