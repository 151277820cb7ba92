package models

import (
	"time"

	"github.com/campuswell/scheduling-api/pkg/dates"
)

// AppointmentStatus enumerates the appointment lifecycle states.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusUpcoming  AppointmentStatus = "UPCOMING"
	StatusDeclined  AppointmentStatus = "DECLINED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are permitted from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUpcoming, StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AppointmentAction is a caller-requested lifecycle transition.
type AppointmentAction string

const (
	ActionAccept  AppointmentAction = "accept"
	ActionDecline AppointmentAction = "decline"
	ActionCancel  AppointmentAction = "cancel"
)

// transitions is the lifecycle table. Completion is absent on purpose: it is
// reachable only through the automatic sweep, never through a caller action.
var transitions = map[AppointmentStatus]map[AppointmentAction]AppointmentStatus{
	StatusPending: {
		ActionAccept:  StatusUpcoming,
		ActionDecline: StatusDeclined,
	},
	StatusUpcoming: {
		ActionCancel: StatusCancelled,
	},
}

// NextStatus resolves the target status for an action applied in the given
// state. The second return is false when the transition is not permitted.
func NextStatus(from AppointmentStatus, action AppointmentAction) (AppointmentStatus, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// Appointment is a counselling session booking between one student and one
// counsellor. Notes are written once by the requester at creation; Summary is
// written once by the counsellor after completion.
type Appointment struct {
	ID           string            `db:"id" json:"id"`
	StudentID    string            `db:"student_id" json:"student_id"`
	CounsellorID string            `db:"counsellor_id" json:"counsellor_id"`
	Date         string            `db:"slot_date" json:"date"`
	Start        dates.TimeOfDay   `db:"start_minute" json:"time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	Summary      *string           `db:"summary" json:"summary,omitempty"`
	ActionItems  []ActionItem      `db:"-" json:"action_items,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// StartAt resolves the absolute start instant of the appointment in loc.
func (a *Appointment) StartAt(loc *time.Location) (time.Time, error) {
	day, err := dates.ParseKey(a.Date)
	if err != nil {
		return time.Time{}, err
	}
	anchored := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return a.Start.At(anchored), nil
}

// AppointmentFilter captures filtering criteria for listing appointments.
type AppointmentFilter struct {
	StudentID    string
	CounsellorID string
	Status       AppointmentStatus
	FromDate     string
	ToDate       string
	Page         int
	PageSize     int
}
