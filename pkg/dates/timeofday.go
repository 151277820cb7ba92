package dates

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a time within a day stored as minutes since midnight. Keeping
// the normalised integer form makes ordering numeric; display strings such as
// "09:00 AM" sort wrongly as raw text across the 12/24-hour boundary.
type TimeOfDay int

// ParseTimeOfDay accepts 24-hour "HH:MM" as well as 12-hour "h:MM AM"/"h:MM PM"
// display forms and normalises both to minutes since midnight.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	upper := strings.ToUpper(raw)

	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			upper = strings.TrimSpace(strings.TrimSuffix(upper, suffix))
			break
		}
	}

	parts := strings.SplitN(upper, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// Minutes returns the minute-of-day value.
func (t TimeOfDay) Minutes() int { return int(t) }

// String renders the canonical 24-hour "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Display renders the 12-hour form used by client UIs.
func (t TimeOfDay) Display() string {
	hour := int(t) / 60
	minute := int(t) % 60
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem)
}

// At anchors the time of day onto the given calendar date.
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(t)/60, int(t)%60, 0, 0, day.Location())
}

// MarshalJSON encodes as the canonical "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any form ParseTimeOfDay accepts.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer storing the minute-of-day integer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan implements sql.Scanner for integer columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
		return nil
	case []byte:
		parsed, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("scan time of day: %w", err)
		}
		*t = TimeOfDay(parsed)
		return nil
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
}
