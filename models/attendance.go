package models

import "time"

// Attendance records one user's participation in one meeting on one day.
// The compound unique index is the concurrency backstop that keeps this to a
// single row per (user, meeting, date) under simultaneous join requests.
type Attendance struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex:uniq_attendance,priority:1" json:"user_id"`
	MeetingID       uint       `gorm:"not null;uniqueIndex:uniq_attendance,priority:2" json:"meeting_id"`
	Date            string     `gorm:"size:10;not null;uniqueIndex:uniq_attendance,priority:3;index" json:"date"`
	JoinTime        *time.Time `json:"join_time"`
	LeaveTime       *time.Time `json:"leave_time"`
	DurationSeconds int        `gorm:"default:0" json:"duration_seconds"`
	// Counted flips false -> true exactly once and guards the increment of
	// User.TotalMeetingsAttended.
	Counted   bool      `gorm:"default:false" json:"counted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
