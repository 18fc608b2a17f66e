package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Tree growth stages, in order. Completing the last stage plants a tree
// (TotalTrees++) and restarts at StageSeed.
const (
	StageSeed    = "seed"
	StageSprout  = "sprout"
	StageSapling = "sapling"
	StageTree    = "tree"
)

// TreeStages lists growth stages in progression order.
var TreeStages = []string{StageSeed, StageSprout, StageSapling, StageTree}

// User represents a member of the meditation community. Passwords are stored
// as bcrypt hashes only.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:32" json:"phone,omitempty"`
	Gender       string `gorm:"size:16" json:"gender,omitempty"`
	Role         string `gorm:"size:16;default:user" json:"role"`

	// Gamification counters, mutated only by the attendance orchestration.
	// Invariant: CurrentStreak <= LongestStreak after every update.
	CurrentStreak         int        `gorm:"default:0" json:"current_streak"`
	LongestStreak         int        `gorm:"default:0" json:"longest_streak"`
	LastMeetingDate       *time.Time `json:"last_meeting_date"`
	TotalMeetingsAttended int        `gorm:"default:0" json:"total_meetings_attended"`
	SoulPeacePoints       int        `gorm:"default:0" json:"soul_peace_points"`
	TreeStage             string     `gorm:"size:16;default:seed" json:"tree_stage"`
	TreeStartedAt         time.Time  `json:"tree_started_at"`
	TotalTrees            int        `gorm:"default:0" json:"total_trees"`

	LastActiveAt *time.Time     `json:"last_active_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps and gamification defaults are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.TreeStage == "" {
		u.TreeStage = StageSeed
	}
	if u.TreeStartedAt.IsZero() {
		u.TreeStartedAt = now
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AdvanceTree moves the user one growth stage forward. Leaving the final
// stage plants a tree and restarts the cycle.
func (u *User) AdvanceTree(now time.Time) {
	for i, stage := range TreeStages {
		if stage != u.TreeStage {
			continue
		}
		if i == len(TreeStages)-1 {
			u.TotalTrees++
			u.TreeStage = StageSeed
		} else {
			u.TreeStage = TreeStages[i+1]
		}
		u.TreeStartedAt = now
		return
	}
	// unknown stage value, restart the cycle
	u.TreeStage = StageSeed
	u.TreeStartedAt = now
}
