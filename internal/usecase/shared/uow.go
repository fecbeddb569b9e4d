package shared

import (
	"context"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/payment"
	"facility-booking/internal/domain/points"

	"github.com/google/uuid"
)

// UnitOfWork runs command-side work inside one transaction. Within spans the
// conflict check and the mutation so check-then-act stays atomic; the
// implementation bounds lock waits and retries serialization failures.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Points() PointsRepository
	Users() UserRepository
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// FindForUpdate locks the booking row for the rest of the transaction.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// LockOverlapping locks and returns the ids of non-terminal bookings on
	// the same resource whose interval overlaps slot. The row locks
	// serialize concurrent writers on the resource until commit.
	LockOverlapping(ctx context.Context, kind booking.Kind, resourceID uuid.UUID, slot booking.TimeSlot, excludeID *uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, b *booking.Booking) error
	// ExpirePendingBefore flips pending bookings whose hold lapsed to
	// canceled. The status guard is part of the statement so confirmed and
	// terminal rows are never touched.
	ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error)
	// CompleteElapsedBefore flips confirmed bookings whose slot has passed
	// to completed.
	CompleteElapsedBefore(ctx context.Context, now time.Time) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	Update(ctx context.Context, p *payment.Payment) error
}

type PointsRepository interface {
	// Insert appends a ledger entry. Entries are immutable; there is no
	// update or delete.
	Insert(ctx context.Context, e *points.Entry) error
}

type UserRepository interface {
	// LockBalance locks the user row and returns the cached points balance.
	LockBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	// AddToBalance applies a delta to the cached balance and returns the new
	// value. Must run in the same transaction as the ledger insert.
	AddToBalance(ctx context.Context, userID uuid.UUID, delta int64, now time.Time) (int64, error)
}
