package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 01:30 local on March 2 is still March 1 in UTC.
	local := time.Date(2026, 3, 2, 1, 30, 0, 0, loc)

	assert.Equal(t, Day("2026-03-01"), DayOf(local))
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("2026-03-01")
	assert.True(t, ok)
	assert.Equal(t, "2026-03-01", d.String())

	_, ok = ParseDay("03/01/2026")
	assert.False(t, ok)

	_, ok = ParseDay("2026-13-40")
	assert.False(t, ok)
}

func TestDayPrev(t *testing.T) {
	assert.Equal(t, Day("2026-02-28"), Day("2026-03-01").Prev())
	assert.Equal(t, Day("2024-02-29"), Day("2024-03-01").Prev(), "leap year")
	assert.Equal(t, Day("2025-12-31"), Day("2026-01-01").Prev())
}
