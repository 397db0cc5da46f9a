package models

import "time"

// DailyRecord holds one user's energy gauge for one calendar day. There is at
// most one row per (user, date); the composite unique index makes first-touch
// creation exclusive under concurrency.
//
// Energy is a derived running total for the day, floor-clamped at zero.
// BatteryEarned only ever transitions false -> true. BonusApplied is written
// once at creation and never updated afterwards.
type DailyRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_daily_user_date,unique;not null" json:"user_id"`
	Date          time.Time `gorm:"index:idx_daily_user_date,unique;type:date;not null" json:"date"`
	Energy        int       `gorm:"not null;default:0" json:"energy"`
	BatteryEarned bool      `gorm:"not null;default:false" json:"battery_earned"`
	BonusApplied  bool      `gorm:"not null;default:false" json:"bonus_applied"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
