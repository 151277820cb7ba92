package dto

import "github.com/campuswell/scheduling-api/internal/models"

// BookAppointmentRequest creates an appointment against an open slot.
// StudentID and CounsellorID are resolved from the caller's identity where the
// role implies them; Request marks a student booking that needs counsellor
// confirmation before it is scheduled.
type BookAppointmentRequest struct {
	StudentID    string `json:"student_id"`
	CounsellorID string `json:"counsellor_id"`
	Date         string `json:"date" validate:"required"`
	Time         string `json:"time" validate:"required"`
	Notes        string `json:"notes" validate:"max=2000"`
	Request      bool   `json:"request"`
}

// TransitionRequest applies a lifecycle action to an appointment.
type TransitionRequest struct {
	Action models.AppointmentAction `json:"action" validate:"required,oneof=accept decline cancel"`
}

// SummaryRequest records the counsellor's post-session summary.
type SummaryRequest struct {
	Summary string `json:"summary" validate:"required,max=5000"`
}

// AppointmentListQuery captures query parameters for listing appointments.
type AppointmentListQuery struct {
	CounsellorID string `form:"counsellor_id"`
	StudentID    string `form:"student_id"`
	Status       string `form:"status"`
	FromDate     string `form:"from"`
	ToDate       string `form:"to"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// AppointmentListResponse pairs a page of appointments with its pagination
// metadata.
type AppointmentListResponse struct {
	Appointments []models.Appointment `json:"appointments"`
	Pagination   models.Pagination    `json:"pagination"`
}
