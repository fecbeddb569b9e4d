package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind      = errors.New("invalid booking kind")
	ErrInvalidSource    = errors.New("invalid booking source")
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrNotPending       = errors.New("booking is not pending")
	ErrNotConfirmed     = errors.New("booking is not confirmed")
	ErrAlreadyCompleted = errors.New("booking is already completed")
	ErrTerminalState    = errors.New("booking is in a terminal state")
)

// Booking holds one slot on one resource. For kind=room the resource is a
// room, for kind=class_session it is a class schedule; conflict detection is
// keyed by (kind, resource).
type Booking struct {
	id            uuid.UUID
	userID        uuid.UUID
	kind          Kind
	resourceID    uuid.UUID
	slot          TimeSlot
	status        Status
	source        Source
	holdExpiresAt *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewBooking creates a pending booking whose hold lasts holdWindow from now.
func NewBooking(
	userID uuid.UUID,
	kind Kind,
	resourceID uuid.UUID,
	slot TimeSlot,
	source Source,
	now time.Time,
	holdWindow time.Duration,
) (*Booking, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if !source.IsValid() {
		return nil, ErrInvalidSource
	}

	holdExpiresAt := now.Add(holdWindow)

	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		kind:          kind,
		resourceID:    resourceID,
		slot:          slot,
		status:        StatusPending,
		source:        source,
		holdExpiresAt: &holdExpiresAt,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructBooking(
	id, userID uuid.UUID,
	kind Kind,
	resourceID uuid.UUID,
	slot TimeSlot,
	status Status,
	source Source,
	holdExpiresAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		kind:          kind,
		resourceID:    resourceID,
		slot:          slot,
		status:        status,
		source:        source,
		holdExpiresAt: holdExpiresAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Confirm moves a pending booking to confirmed. Settlement of a deposit does
// not call this implicitly; confirmation is an explicit step.
func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// Cancel voids a pending or confirmed booking. Canceling an already canceled
// booking is a no-op; a completed booking cannot be canceled.
func (b *Booking) Cancel(now time.Time) error {
	switch b.status {
	case StatusCanceled:
		return nil
	case StatusCompleted:
		return ErrAlreadyCompleted
	default:
		b.status = StatusCanceled
		b.updatedAt = now
		return nil
	}
}

// Complete marks a confirmed booking whose slot has elapsed as fulfilled.
func (b *Booking) Complete(now time.Time) error {
	if b.status.IsTerminal() {
		return nil
	}
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// Extend pushes the end time out by extra. The caller must re-run conflict
// detection on the returned slot before persisting.
func (b *Booking) Extend(extra time.Duration, now time.Time) (TimeSlot, error) {
	if b.status.IsTerminal() {
		return TimeSlot{}, ErrTerminalState
	}

	extended, err := b.slot.ExtendedBy(extra)
	if err != nil {
		return TimeSlot{}, err
	}

	b.slot = extended
	b.updatedAt = now
	return extended, nil
}

// HoldExpired reports whether the provisional hold has lapsed. Only pending
// bookings carry a live hold.
func (b *Booking) HoldExpired(now time.Time) bool {
	if b.status != StatusPending || b.holdExpiresAt == nil {
		return false
	}
	return !now.Before(*b.holdExpiresAt)
}

func (b *Booking) Elapsed(now time.Time) bool {
	return !now.Before(b.slot.End())
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) UserID() uuid.UUID         { return b.userID }
func (b *Booking) Kind() Kind                { return b.kind }
func (b *Booking) ResourceID() uuid.UUID     { return b.resourceID }
func (b *Booking) Slot() TimeSlot            { return b.slot }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) Source() Source            { return b.source }
func (b *Booking) HoldExpiresAt() *time.Time { return b.holdExpiresAt }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
