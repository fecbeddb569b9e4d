package queries

import (
	"context"
	"time"

	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Kind          string     `json:"kind"`
	ResourceID    uuid.UUID  `json:"resource_id"`
	ResourceName  *string    `json:"resource_name,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName *string   `json:"resource_name,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type PaymentView struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Type      string    `json:"type"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BookingListItem, error)
	ListPayments(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserIDPaginated(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	FindPaymentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.FindByUserIDPaginated(ctx, userID, int32(limit), int32(offset))
}

func (q *bookingQueriesImpl) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]*PaymentView, error) {
	return q.repo.FindPaymentsByBookingID(ctx, bookingID)
}
