package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Source    string    `json:"source,omitempty"`
	Deposit   int64     `json:"deposit,omitempty"`
}

// GetSource falls back to web, the dominant channel, when the admin UI
// omits the field.
func (r CreateBookingRequest) GetSource() string {
	if r.Source == "" {
		return "web"
	}
	return r.Source
}

type ExtendBookingRequest struct {
	ExtraMinutes int    `json:"extra_minutes" binding:"required,gt=0"`
	Amount       int64  `json:"amount,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

type ListBookingsQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
