package models

import "time"

// Day is a calendar day in YYYY-MM-DD form. All day boundaries in the system
// are derived in UTC so that streak comparisons behave the same regardless of
// server locale.
type Day string

const dayLayout = "2006-01-02"

// DayOf returns the UTC calendar day containing t.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(dayLayout))
}

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(s string) (Day, bool) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", false
	}
	return Day(s), true
}

// String returns the YYYY-MM-DD form.
func (d Day) String() string { return string(d) }

// Prev returns the previous calendar day.
func (d Day) Prev() Day {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return d
	}
	return Day(t.AddDate(0, 0, -1).Format(dayLayout))
}

// Equal reports whether both values name the same calendar day.
func (d Day) Equal(other Day) bool { return d == other }
