package controllers

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medixhq/medix/config"
	"github.com/medixhq/medix/models"
)

// Typed failures surfaced by the attendance orchestration.
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
)

// sessionResult describes one attendance event after orchestration.
type sessionResult struct {
	Meeting    *models.Meeting
	Attendance *models.Attendance
	User       *models.User
	// IsNewJoin is true when this call created the attendance row.
	IsNewJoin bool
	// Counted is true when this call won the once-only counted transition
	// and therefore updated the user's streak and counters.
	Counted bool
}

// recordAttendanceEvent is the single authoritative join path. Both the
// attendance mark route and the meeting join route funnel through it, so the
// per-day idempotency rules live in exactly one place.
//
// Everything runs in one transaction: the compound unique index on
// (user_id, meeting_id, date) absorbs concurrent inserts, and the counted
// flag's conditional update is the only guard for user counter increments.
func recordAttendanceEvent(db *gorm.DB, userID, meetingID uint, now time.Time) (*sessionResult, error) {
	res := &sessionResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}
		res.Meeting = &meeting

		today := models.DayOf(now).String()

		attendance, isNew, err := findOrCreateAttendance(tx, userID, meetingID, today, now)
		if err != nil {
			return err
		}
		res.Attendance = attendance
		res.IsNewJoin = isNew

		counted, err := markCountedOnce(tx, attendance)
		if err != nil {
			return err
		}
		res.Counted = counted

		if !counted {
			// Already counted today for this meeting; nothing to award.
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			res.User = &user
			return nil
		}

		user, err := applyAttendanceRewards(tx, userID, now)
		if err != nil {
			return err
		}
		res.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// findOrCreateAttendance resolves the unique row for (user, meeting, day).
// A concurrent insert losing the unique-index race falls back to reading the
// winner's row. A row that exists without a join time is repaired in place.
func findOrCreateAttendance(tx *gorm.DB, userID, meetingID uint, date string, now time.Time) (*models.Attendance, bool, error) {
	var attendance models.Attendance
	err := tx.Where("user_id = ? AND meeting_id = ? AND date = ?", userID, meetingID, date).
		First(&attendance).Error
	if err == nil {
		if attendance.JoinTime == nil {
			if err := tx.Model(&attendance).Update("join_time", now).Error; err != nil {
				return nil, false, err
			}
			t := now
			attendance.JoinTime = &t
		}
		return &attendance, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	joinAt := now
	attendance = models.Attendance{
		UserID:    userID,
		MeetingID: meetingID,
		Date:      date,
		JoinTime:  &joinAt,
	}
	create := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "meeting_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&attendance)
	if create.Error != nil {
		return nil, false, create.Error
	}
	if create.RowsAffected == 0 {
		// Lost the race; a concurrent request created the row.
		if err := tx.Where("user_id = ? AND meeting_id = ? AND date = ?", userID, meetingID, date).
			First(&attendance).Error; err != nil {
			return nil, false, err
		}
		return &attendance, false, nil
	}
	return &attendance, true, nil
}

// markCountedOnce atomically flips counted false -> true and reports whether
// this call performed the transition. Safe under concurrent calls because the
// check lives inside the UPDATE's predicate.
func markCountedOnce(tx *gorm.DB, attendance *models.Attendance) (bool, error) {
	update := tx.Model(&models.Attendance{}).
		Where("id = ? AND counted = ?", attendance.ID, false).
		Update("counted", true)
	if update.Error != nil {
		return false, update.Error
	}
	if update.RowsAffected == 0 {
		attendance.Counted = true
		return false, nil
	}
	attendance.Counted = true
	return true, nil
}

// applyAttendanceRewards updates streak, attendance count, points, and tree
// growth for the user. Called at most once per counted attendance.
func applyAttendanceRewards(tx *gorm.DB, userID uint, now time.Time) (*models.User, error) {
	cfg := config.Get()

	query := tx
	if tx.Dialector.Name() == "mysql" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := query.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	models.UpdateStreak(&user, now)
	user.TotalMeetingsAttended++
	user.SoulPeacePoints += cfg.SessionRewardPoints

	stageEvery := cfg.TreeStageSessions
	if stageEvery > 0 && user.TotalMeetingsAttended%stageEvery == 0 {
		user.AdvanceTree(now)
	}

	if err := tx.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// recordLeave stamps the leave time and duration exactly once. The first
// writer wins via the conditional UPDATE; repeated or racing calls return the
// stored row unchanged.
func recordLeave(db *gorm.DB, attendanceID uint, now time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := db.First(&attendance, attendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	if attendance.LeaveTime != nil {
		return &attendance, nil
	}

	leaveAt := now
	updates := map[string]interface{}{"leave_time": leaveAt}

	duration := 0
	if attendance.JoinTime == nil {
		// Row predates any recorded join; repair so duration stays defined.
		updates["join_time"] = leaveAt
	} else {
		duration = int(leaveAt.Sub(*attendance.JoinTime) / time.Second)
		if duration < 0 {
			duration = 0
		}
	}
	updates["duration_seconds"] = duration

	// The null check lives inside the UPDATE's predicate so concurrent leave
	// calls cannot both stamp the row.
	res := db.Model(&models.Attendance{}).
		Where("id = ? AND leave_time IS NULL", attendance.ID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race; return the winner's stamp.
		if err := db.First(&attendance, attendanceID).Error; err != nil {
			return nil, err
		}
		return &attendance, nil
	}

	attendance.LeaveTime = &leaveAt
	if attendance.JoinTime == nil {
		t := leaveAt
		attendance.JoinTime = &t
	}
	attendance.DurationSeconds = duration
	return &attendance, nil
}
