package response

import (
	"time"

	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	Kind          string     `json:"kind"`
	ResourceID    uuid.UUID  `json:"resourceId"`
	ResourceName  *string    `json:"resourceName,omitempty"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        time.Time  `json:"endsAt"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName *string   `json:"resourceName,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateBookingResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
