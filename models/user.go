package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account owned by the identity layer. The energy engine only ever
// sees the ID; handles are unique case-insensitively via HandleLower.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Handle       string         `gorm:"size:64;not null" json:"handle"`
	HandleLower  string         `gorm:"size:64;uniqueIndex;not null" json:"-"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
