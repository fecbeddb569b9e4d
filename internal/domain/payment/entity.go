package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrInvalidType       = errors.New("invalid payment type")
	ErrInvalidOutcome    = errors.New("settlement outcome must be paid or failed")
	ErrAlreadySettled    = errors.New("payment is already settled")
)

// Payment is an obligation attached to exactly one booking. It records the
// financial side of a booking's lifecycle; actual settlement happens at the
// provider and is reported back through Settle. Payments are audit records
// and are never deleted, even when the owning booking is canceled.
type Payment struct {
	id        uuid.UUID
	bookingID uuid.UUID
	amount    int64
	currency  string
	ptype     Type
	provider  string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewPayment(
	bookingID uuid.UUID,
	amount int64,
	currency string,
	ptype Type,
	provider string,
	now time.Time,
) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if !ptype.IsValid() {
		return nil, ErrInvalidType
	}

	return &Payment{
		id:        uuid.New(),
		bookingID: bookingID,
		amount:    amount,
		currency:  currency,
		ptype:     ptype,
		provider:  provider,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructPayment(
	id, bookingID uuid.UUID,
	amount int64,
	currency string,
	ptype Type,
	provider string,
	status Status,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:        id,
		bookingID: bookingID,
		amount:    amount,
		currency:  currency,
		ptype:     ptype,
		provider:  provider,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Settle records the provider outcome. Settling twice with the same outcome
// is a no-op; flipping an already settled payment is rejected. Settlement
// never touches the owning booking's status.
func (p *Payment) Settle(outcome Outcome, now time.Time) error {
	if outcome != StatusPaid && outcome != StatusFailed {
		return ErrInvalidOutcome
	}
	if p.status == outcome {
		return nil
	}
	if p.status != StatusPending {
		return ErrAlreadySettled
	}
	p.status = outcome
	p.updatedAt = now
	return nil
}

func (p *Payment) ID() uuid.UUID        { return p.id }
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }
func (p *Payment) Amount() int64        { return p.amount }
func (p *Payment) Currency() string     { return p.currency }
func (p *Payment) Type() Type           { return p.ptype }
func (p *Payment) Provider() string     { return p.provider }
func (p *Payment) Status() Status       { return p.status }
func (p *Payment) CreatedAt() time.Time { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }
