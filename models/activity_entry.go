package models

import "time"

// ActivityEntry is one append-only row of the activity log. Points keep their
// raw sign even when the daily gauge clamps at zero, so the log stays the
// source of truth for lifetime totals. Entries are never updated or deleted.
type ActivityEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Points    int       `gorm:"not null" json:"points"`
	Date      time.Time `gorm:"index;type:date;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
