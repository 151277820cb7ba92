package dto

// PublishSlotRequest adds one open slot to the caller's calendar.
type PublishSlotRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// WithdrawSlotRequest removes a previously published slot.
type WithdrawSlotRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// DayAvailabilityResponse lists a counsellor's open slots for one date.
type DayAvailabilityResponse struct {
	CounsellorID string   `json:"counsellor_id"`
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
}
