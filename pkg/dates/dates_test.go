package dates

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 42, 7, 0, time.UTC)
	key := Key(day)
	assert.Equal(t, "2025-03-10", key)

	parsed, err := ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", Key(parsed))
}

func TestIsPastTruncatesToMidnight(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	earlierToday := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
	assert.False(t, IsPast(earlierToday, now), "today must never be classified as past")
	assert.True(t, IsToday(earlierToday, now))

	yesterday := now.AddDate(0, 0, -1)
	assert.True(t, IsPast(yesterday, now))
	assert.False(t, IsToday(yesterday, now))
}

func TestWeekRangeMondayToSunday(t *testing.T) {
	// 2025-03-12 is a Wednesday.
	wednesday := time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC)
	start, end := WeekRange(wednesday)
	assert.Equal(t, "2025-03-10", Key(start))
	assert.Equal(t, "2025-03-16", Key(end))
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Sunday, end.Weekday())

	// A Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	start, end = WeekRange(sunday)
	assert.Equal(t, "2025-03-10", Key(start))
	assert.Equal(t, "2025-03-16", Key(end))
}

func TestMonthGrid(t *testing.T) {
	// March 2025 starts on a Saturday: five leading blanks in a Monday-first grid.
	cells := MonthGrid(2025, time.March)
	require.Len(t, cells, 5+31)
	for i := 0; i < 5; i++ {
		assert.Zero(t, cells[i].Day)
		assert.Empty(t, cells[i].Key)
	}
	assert.Equal(t, 1, cells[5].Day)
	assert.Equal(t, "2025-03-01", cells[5].Key)
	assert.Equal(t, 31, cells[len(cells)-1].Day)
	assert.Equal(t, "2025-03-31", cells[len(cells)-1].Key)
}

func TestMonthGridRollover(t *testing.T) {
	// Month 13 of 2024 normalises to January 2025; month 0 to December 2024.
	next := MonthGrid(2024, time.Month(13))
	require.NotEmpty(t, next)
	assert.Equal(t, "2025-01-01", next[findFirstDay(next)].Key)

	prev := MonthGrid(2025, time.Month(0))
	require.NotEmpty(t, prev)
	assert.Equal(t, "2024-12-01", prev[findFirstDay(prev)].Key)
}

func findFirstDay(cells []MonthCell) int {
	for i, c := range cells {
		if c.Day == 1 {
			return i
		}
	}
	return -1
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]TimeOfDay{
		"00:00":    0,
		"09:00":    9 * 60,
		"23:59":    23*60 + 59,
		"9:30 AM":  9*60 + 30,
		"12:00 AM": 0,
		"12:15 PM": 12*60 + 15,
		"01:00 PM": 13 * 60,
		"11:45 pm": 23*60 + 45,
	}
	for input, want := range cases {
		got, err := ParseTimeOfDay(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	for _, bad := range []string{"", "9", "25:00", "09:60", "13:00 PM", "0:30 AM", "noon"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	// The display strings would sort "10:00 AM" before "09:00 AM" raw; the
	// normalised form must not.
	nine, err := ParseTimeOfDay("09:00 AM")
	require.NoError(t, err)
	ten, err := ParseTimeOfDay("10:00 AM")
	require.NoError(t, err)
	one, err := ParseTimeOfDay("01:00 PM")
	require.NoError(t, err)

	slots := []TimeOfDay{one, ten, nine}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	assert.Equal(t, []TimeOfDay{nine, ten, one}, slots)
}

func TestTimeOfDayFormats(t *testing.T) {
	tod, err := ParseTimeOfDay("13:05")
	require.NoError(t, err)
	assert.Equal(t, "13:05", tod.String())
	assert.Equal(t, "01:05 PM", tod.Display())

	at := tod.At(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 13, 5, 0, 0, time.UTC), at)
}

func TestTimeOfDayJSON(t *testing.T) {
	tod := TimeOfDay(9 * 60)
	data, err := tod.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"09:00"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, parsed.UnmarshalJSON([]byte(`"09:00 PM"`)))
	assert.Equal(t, TimeOfDay(21*60), parsed)
	assert.Error(t, parsed.UnmarshalJSON([]byte(`42`)))
}
