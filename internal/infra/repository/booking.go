package repository

import (
	"context"
	"fmt"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// resourceColumn maps a booking kind to the column holding its resource key.
// Conflict detection is always scoped to (kind, resource column).
func resourceColumn(kind booking.Kind) string {
	if kind == booking.KindClassSession {
		return "class_schedule_id"
	}
	return "room_id"
}

const createBookingSQL = `
INSERT INTO bookings (
	id, user_id, kind, room_id, class_schedule_id,
	starts_at, ends_at, status, source, holds_expires_at,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	var roomID, scheduleID pgtype.UUID
	if b.Kind() == booking.KindClassSession {
		scheduleID = pgconv.UUIDToPgtype(b.ResourceID())
	} else {
		roomID = pgconv.UUIDToPgtype(b.ResourceID())
	}

	_, err := r.db.Exec(ctx, createBookingSQL,
		b.ID(), b.UserID(), b.Kind().String(), roomID, scheduleID,
		b.Slot().Start(), b.Slot().End(), b.Status().String(), b.Source().String(),
		pgconv.TimePtrToPgtype(b.HoldExpiresAt()),
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

const findBookingForUpdateSQL = `
SELECT id, user_id, kind, room_id, class_schedule_id,
       starts_at, ends_at, status, source, holds_expires_at,
       created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

func (r *BookingRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, findBookingForUpdateSQL, id)

	entity, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking for update", err)
	}
	return entity, nil
}

const lockOverlappingSQL = `
SELECT id FROM bookings
WHERE kind = $1 AND %s = $2
  AND status IN ('pending', 'confirmed')
  AND NOT (ends_at <= $3 OR starts_at >= $4)
FOR UPDATE`

const lockOverlappingExcludeSQL = `
SELECT id FROM bookings
WHERE kind = $1 AND %s = $2
  AND status IN ('pending', 'confirmed')
  AND NOT (ends_at <= $3 OR starts_at >= $4)
  AND id <> $5
FOR UPDATE`

func (r *BookingRepository) LockOverlapping(
	ctx context.Context,
	kind booking.Kind,
	resourceID uuid.UUID,
	slot booking.TimeSlot,
	excludeID *uuid.UUID,
) ([]uuid.UUID, error) {
	column := resourceColumn(kind)

	var (
		rows pgx.Rows
		err  error
	)
	if excludeID != nil {
		rows, err = r.db.Query(ctx, fmt.Sprintf(lockOverlappingExcludeSQL, column),
			kind.String(), resourceID, slot.Start(), slot.End(), *excludeID)
	} else {
		rows, err = r.db.Query(ctx, fmt.Sprintf(lockOverlappingSQL, column),
			kind.String(), resourceID, slot.Start(), slot.End())
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock overlapping bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overlapping bookings", err)
	}
	return ids, nil
}

const updateBookingSQL = `
UPDATE bookings
SET status = $2, ends_at = $3, updated_at = $4
WHERE id = $1`

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(), b.Status().String(), b.Slot().End(), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const expirePendingSQL = `
UPDATE bookings
SET status = 'canceled', updated_at = $1
WHERE status = 'pending'
  AND holds_expires_at IS NOT NULL
  AND holds_expires_at <= $1`

// ExpirePendingBefore carries the status guard in the statement itself so
// only pending rows flip, no matter how stale the sweeper's view is.
func (r *BookingRepository) ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, expirePendingSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire pending bookings", err)
	}
	return tag.RowsAffected(), nil
}

const completeElapsedSQL = `
UPDATE bookings
SET status = 'completed', updated_at = $1
WHERE status = 'confirmed'
  AND ends_at <= $1`

func (r *BookingRepository) CompleteElapsedBefore(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, completeElapsedSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to complete elapsed bookings", err)
	}
	return tag.RowsAffected(), nil
}

type bookingRow interface {
	Scan(dest ...any) error
}

func scanBooking(row bookingRow) (*booking.Booking, error) {
	var (
		id, userID            uuid.UUID
		kindStr, statusStr    string
		sourceStr             string
		roomID, scheduleID    pgtype.UUID
		startsAt, endsAt      time.Time
		holdsExpiresAt        pgtype.Timestamptz
		createdAt, updatedAt  time.Time
	)

	err := row.Scan(
		&id, &userID, &kindStr, &roomID, &scheduleID,
		&startsAt, &endsAt, &statusStr, &sourceStr, &holdsExpiresAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	kind := booking.Kind(kindStr)
	resourceID := uuid.Nil
	if kind == booking.KindClassSession {
		if p := pgconv.UUIDPtrFromPgtype(scheduleID); p != nil {
			resourceID = *p
		}
	} else {
		if p := pgconv.UUIDPtrFromPgtype(roomID); p != nil {
			resourceID = *p
		}
	}

	slot, err := booking.NewTimeSlot(startsAt, endsAt)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, userID, kind, resourceID, slot,
		booking.Status(statusStr), booking.Source(sourceStr),
		pgconv.TimePtrFromPgtype(holdsExpiresAt),
		createdAt, updatedAt,
	), nil
}
