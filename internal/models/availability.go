package models

import (
	"time"

	"github.com/campuswell/scheduling-api/pkg/dates"
)

// AvailabilitySlot is one bookable (date, time) unit published by a
// counsellor. A counsellor's calendar holds at most one slot per (date, time).
type AvailabilitySlot struct {
	ID           string          `db:"id" json:"id"`
	CounsellorID string          `db:"counsellor_id" json:"counsellor_id"`
	Date         string          `db:"slot_date" json:"date"`
	Start        dates.TimeOfDay `db:"start_minute" json:"time"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
