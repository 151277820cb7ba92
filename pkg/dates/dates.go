package dates

import "time"

// KeyLayout is the canonical date key format used everywhere a calendar day
// acts as a map key or wire value.
const KeyLayout = "2006-01-02"

// Key returns the canonical YYYY-MM-DD representation of t. All "same day"
// comparisons must go through keys rather than raw timestamp equality.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a canonical YYYY-MM-DD date key.
func ParseKey(s string) (time.Time, error) {
	return time.Parse(KeyLayout, s)
}

// Truncate drops the time-of-day portion, keeping the location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsPast reports whether t falls on a day strictly before now's day.
// Comparison is midnight-truncated so today is never classified as past.
func IsPast(t, now time.Time) bool {
	return Truncate(t).Before(Truncate(now))
}

// IsToday reports whether t and now share a calendar day.
func IsToday(t, now time.Time) bool {
	return Key(t) == Key(now)
}

// WeekRange returns the Monday-to-Sunday span containing t. Start and End are
// midnight-truncated; End is the Sunday of the same week.
func WeekRange(t time.Time) (start, end time.Time) {
	day := Truncate(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// MonthCell is a single cell of a rendered month grid. Day is zero for the
// leading padding cells before the 1st.
type MonthCell struct {
	Day int    `json:"day"`
	Key string `json:"key,omitempty"`
}

// MonthGrid produces the cells of a 7-column, Monday-first calendar grid for
// the given month: leading blanks for the weekday offset of the 1st, then one
// cell per day. Month arithmetic in the caller may roll over year boundaries;
// time.Date normalises that before the grid is built.
func MonthGrid(year int, month time.Month) []MonthCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday()) - int(time.Monday)
	if lead < 0 {
		lead += 7
	}
	days := first.AddDate(0, 1, -1).Day()

	cells := make([]MonthCell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, MonthCell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, MonthCell{Day: d, Key: Key(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))})
	}
	return cells
}
