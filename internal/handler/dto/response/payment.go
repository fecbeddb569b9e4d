package response

import (
	"time"

	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"bookingId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Type      string    `json:"type"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromPaymentView(rm *queries.PaymentView) *PaymentResponse {
	var resp PaymentResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
