package models

import "time"

// ActionItem is a follow-up task attached to exactly one appointment. Items
// are created and edited by the counsellor; the completion flag may also be
// toggled by the student the appointment belongs to. They cascade with their
// appointment and are never orphaned.
type ActionItem struct {
	ID            string    `db:"id" json:"id"`
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	Text          string    `db:"text" json:"text"`
	Completed     bool      `db:"completed" json:"completed"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
