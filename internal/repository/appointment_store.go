package repository

import "github.com/jmoiron/sqlx"

// AppointmentStore combines the appointment and action item repositories into
// the single contract the services consume. The in-memory store driver offers
// the same surface on one type.
type AppointmentStore struct {
	*AppointmentRepository
	*ActionItemRepository
}

// NewAppointmentStore constructs the combined store over one database handle.
func NewAppointmentStore(db *sqlx.DB) *AppointmentStore {
	return &AppointmentStore{
		AppointmentRepository: NewAppointmentRepository(db),
		ActionItemRepository:  NewActionItemRepository(db),
	}
}
