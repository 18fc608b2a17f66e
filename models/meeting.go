package models

import "time"

// Meeting status lifecycle: scheduled -> live -> completed, plus the explicit
// completed -> scheduled reschedule transition. All other transitions are
// rejected by ValidStatusTransition.
const (
	MeetingScheduled = "scheduled"
	MeetingLive      = "live"
	MeetingCompleted = "completed"
)

// DefaultMeetingTitle is used when the admin does not provide one.
const DefaultMeetingTitle = "Daily Meditation Session"

// Meeting is the single daily group session. MeetingDate (YYYY-MM-DD) is the
// natural key; the unique index makes the upsert-by-date atomic.
type Meeting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	JoinLink    string    `gorm:"size:512;not null" json:"join_link"`
	MeetingDate string    `gorm:"size:10;uniqueIndex;not null" json:"meeting_date"`
	StartTime   string    `gorm:"size:5" json:"start_time,omitempty"`
	CreatedBy   uint      `gorm:"index" json:"created_by"`
	Status      string    `gorm:"size:16;default:scheduled" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidStatusTransition enforces the linear lifecycle plus reschedule.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case MeetingScheduled:
		return to == MeetingLive
	case MeetingLive:
		return to == MeetingCompleted
	case MeetingCompleted:
		return to == MeetingScheduled
	}
	return false
}
