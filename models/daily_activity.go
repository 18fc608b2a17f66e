package models

import "time"

// DailyActivity stores one row per user per day of authenticated API use.
// It backs the admin dashboard's active-user counts without scanning the
// attendance ledger.
type DailyActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:uniq_daily_activity,priority:1" json:"date"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_daily_activity,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
