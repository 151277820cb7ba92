package dto

// CreateActionItemRequest appends a new action item to an appointment.
type CreateActionItemRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// UpdateActionItemRequest edits an action item. Nil fields are left untouched;
// text edits are restricted to the counsellor while the completion flag may be
// toggled by either participant.
type UpdateActionItemRequest struct {
	Text      *string `json:"text" validate:"omitempty,max=500"`
	Completed *bool   `json:"completed"`
}
