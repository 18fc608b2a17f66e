package models

import "time"

// UpdateStreak applies one attendance activity at the given time to the
// user's streak counters. It mutates the user in memory only; persisting is
// the caller's responsibility, and the caller must guarantee at most one
// counted activity per user per day (the attendance ledger's counted flag).
//
// Rules, compared on UTC calendar days:
//   - same day as LastMeetingDate: no change
//   - the day after LastMeetingDate: streak continues, +1
//   - anything else (including never): streak resets to 1
func UpdateStreak(u *User, at time.Time) {
	today := DayOf(at)

	if u.LastMeetingDate != nil {
		last := DayOf(*u.LastMeetingDate)
		if last.Equal(today) {
			return
		}
		if last.Equal(today.Prev()) {
			u.CurrentStreak++
		} else {
			u.CurrentStreak = 1
		}
	} else {
		u.CurrentStreak = 1
	}

	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}

	t := at
	u.LastMeetingDate = &t
}
