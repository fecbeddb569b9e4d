package readstore

import (
	"context"

	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

// The resource name comes from whichever side table matches the booking's
// kind; class sessions show "<class title> (<instructor>)".
const findBookingByIDSQL = `
SELECT b.id, b.user_id, b.kind, b.room_id, b.class_schedule_id,
       r.name,
       cs.title, cs.instructor,
       b.starts_at, b.ends_at, b.status, b.source, b.holds_expires_at,
       b.created_at, b.updated_at
FROM bookings b
LEFT JOIN rooms r ON r.id = b.room_id
LEFT JOIN class_schedules cs ON cs.id = b.class_schedule_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view               queries.BookingView
		roomID, scheduleID pgtype.UUID
		roomName           pgtype.Text
		classTitle         pgtype.Text
		classInstructor    pgtype.Text
		holdsExpiresAt     pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, findBookingByIDSQL, id).Scan(
		&view.ID, &view.UserID, &view.Kind, &roomID, &scheduleID,
		&roomName,
		&classTitle, &classInstructor,
		&view.StartsAt, &view.EndsAt, &view.Status, &view.Source, &holdsExpiresAt,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	view.ResourceID, view.ResourceName = resolveResource(view.Kind, roomID, scheduleID, roomName, classTitle, classInstructor)
	// The hold is only meaningful while the booking is still pending; the
	// column keeps its last value after a transition.
	if view.Status == "pending" {
		view.HoldExpiresAt = pgconv.TimePtrFromPgtype(holdsExpiresAt)
	}
	return &view, nil
}

const findBookingsByUserSQL = `
SELECT b.id, b.kind, b.room_id, b.class_schedule_id,
       r.name,
       cs.title, cs.instructor,
       b.starts_at, b.ends_at, b.status, b.created_at
FROM bookings b
LEFT JOIN rooms r ON r.id = b.room_id
LEFT JOIN class_schedules cs ON cs.id = b.class_schedule_id
WHERE b.user_id = $1
ORDER BY b.starts_at DESC
LIMIT $2 OFFSET $3`

func (r *BookingReadStore) FindByUserIDPaginated(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var (
			item               queries.BookingListItem
			roomID, scheduleID pgtype.UUID
			roomName           pgtype.Text
			classTitle         pgtype.Text
			classInstructor    pgtype.Text
		)
		err := rows.Scan(
			&item.ID, &item.Kind, &roomID, &scheduleID,
			&roomName,
			&classTitle, &classInstructor,
			&item.StartsAt, &item.EndsAt, &item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.ResourceID, item.ResourceName = resolveResource(item.Kind, roomID, scheduleID, roomName, classTitle, classInstructor)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings by user", err)
	}
	return items, nil
}

const findPaymentsByBookingSQL = `
SELECT id, booking_id, amount, currency, payment_type, provider, status, created_at
FROM payments
WHERE booking_id = $1
ORDER BY created_at`

func (r *BookingReadStore) FindPaymentsByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*queries.PaymentView, error) {
	rows, err := r.db.Query(ctx, findPaymentsByBookingSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments by booking", err)
	}
	defer rows.Close()

	views := make([]*queries.PaymentView, 0)
	for rows.Next() {
		var v queries.PaymentView
		err := rows.Scan(
			&v.ID, &v.BookingID, &v.Amount, &v.Currency,
			&v.Type, &v.Provider, &v.Status, &v.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment view", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payments by booking", err)
	}
	return views, nil
}

func resolveResource(
	kind string,
	roomID, scheduleID pgtype.UUID,
	roomName, classTitle, classInstructor pgtype.Text,
) (uuid.UUID, *string) {
	if kind == "class_session" {
		id := uuid.Nil
		if p := pgconv.UUIDPtrFromPgtype(scheduleID); p != nil {
			id = *p
		}
		if !classTitle.Valid {
			return id, nil
		}
		name := classTitle.String
		if classInstructor.Valid && classInstructor.String != "" {
			name += " (" + classInstructor.String + ")"
		}
		return id, &name
	}

	id := uuid.Nil
	if p := pgconv.UUIDPtrFromPgtype(roomID); p != nil {
		id = *p
	}
	return id, pgconv.StringPtrFromPgtype(roomName)
}
