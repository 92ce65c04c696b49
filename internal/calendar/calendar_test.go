package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	noon := time.Date(2024, time.January, 1, 12, 34, 56, 789, time.UTC)
	assert.Equal(t, date(2024, time.January, 1), Normalize(noon))

	// A local-time evening that is already the next day in UTC.
	loc := time.FixedZone("UTC+3", 3*60*60)
	late := time.Date(2024, time.January, 1, 1, 30, 0, 0, loc) // 2023-12-31 22:30 UTC
	assert.Equal(t, date(2023, time.December, 31), Normalize(late))
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, 0, DayOfWeek(date(2024, time.January, 7)))  // Sunday
	assert.Equal(t, 1, DayOfWeek(date(2024, time.January, 1)))  // Monday
	assert.Equal(t, 6, DayOfWeek(date(2024, time.January, 6)))  // Saturday
}

func TestStartOfWeek(t *testing.T) {
	sunday := date(2023, time.December, 31)
	for i := 0; i < 7; i++ {
		d := sunday.AddDate(0, 0, i)
		assert.Equal(t, sunday, StartOfWeek(d), "day %s", d)
	}
	assert.Equal(t, date(2024, time.January, 7), StartOfWeek(date(2024, time.January, 13)))
}

func TestIsSameWeek(t *testing.T) {
	mon := date(2024, time.January, 1)
	assert.True(t, IsSameWeek(mon, date(2024, time.January, 3)))  // Wednesday same week
	assert.True(t, IsSameWeek(mon, date(2023, time.December, 31))) // Sunday starts the week
	assert.False(t, IsSameWeek(mon, date(2024, time.January, 7)))  // Next Sunday is next week
	assert.False(t, IsSameWeek(mon, date(2024, time.January, 8)))  // Next Monday
}

func TestDatesBetween(t *testing.T) {
	dates := DatesBetween(date(2024, time.January, 1), date(2024, time.January, 7))
	require.Len(t, dates, 7)
	assert.Equal(t, date(2024, time.January, 1), dates[0])
	assert.Equal(t, date(2024, time.January, 7), dates[6])

	single := DatesBetween(date(2024, time.January, 1), date(2024, time.January, 1))
	require.Len(t, single, 1)

	assert.Nil(t, DatesBetween(date(2024, time.January, 2), date(2024, time.January, 1)))
}
