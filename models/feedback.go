package models

import "time"

// Moods a user may report after a session.
var FeedbackMoods = []string{"relaxed", "focused", "energized", "neutral"}

// Feedback is a post-session survey entry. Message is sanitized before
// storage.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Mood      string    `gorm:"size:16;not null" json:"mood"`
	Recommend bool      `json:"recommend"`
	Message   string    `gorm:"size:2048" json:"message"`
	Chips     string    `gorm:"size:512" json:"chips,omitempty"`
	MeetingID *uint     `json:"meeting_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidMood reports whether m is one of the accepted mood values.
func ValidMood(m string) bool {
	for _, v := range FeedbackMoods {
		if v == m {
			return true
		}
	}
	return false
}
