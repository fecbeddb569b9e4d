package points

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrZeroDelta   = errors.New("delta must be nonzero")
	ErrEmptyReason = errors.New("reason is required")
)

// Entry is one append-only row in a user's points ledger. Entries are never
// updated or deleted; the user's cached balance must equal the sum of all
// entry deltas at every commit.
type Entry struct {
	id        uuid.UUID
	userID    uuid.UUID
	delta     int64
	reason    string
	bookingID *uuid.UUID
	createdAt time.Time
}

func NewEntry(userID uuid.UUID, delta int64, reason string, bookingID *uuid.UUID, now time.Time) (*Entry, error) {
	if delta == 0 {
		return nil, ErrZeroDelta
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	return &Entry{
		id:        uuid.New(),
		userID:    userID,
		delta:     delta,
		reason:    reason,
		bookingID: bookingID,
		createdAt: now,
	}, nil
}

func ReconstructEntry(id, userID uuid.UUID, delta int64, reason string, bookingID *uuid.UUID, createdAt time.Time) *Entry {
	return &Entry{
		id:        id,
		userID:    userID,
		delta:     delta,
		reason:    reason,
		bookingID: bookingID,
		createdAt: createdAt,
	}
}

// IsEarn reports whether the entry adds points rather than spending them.
func (e *Entry) IsEarn() bool {
	return e.delta > 0
}

func (e *Entry) ID() uuid.UUID         { return e.id }
func (e *Entry) UserID() uuid.UUID     { return e.userID }
func (e *Entry) Delta() int64          { return e.delta }
func (e *Entry) Reason() string        { return e.reason }
func (e *Entry) BookingID() *uuid.UUID { return e.bookingID }
func (e *Entry) CreatedAt() time.Time  { return e.createdAt }
