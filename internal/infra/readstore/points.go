package readstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PointsReadStore struct {
	db db.DBTX
}

func NewPointsReadStore(dbtx db.DBTX) *PointsReadStore {
	return &PointsReadStore{db: dbtx}
}

const userBalanceSQL = `
SELECT points_balance FROM users WHERE id = $1`

func (r *PointsReadStore) UserBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, userBalanceSQL, userID).Scan(&balance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to read user balance", err)
	}
	return balance, nil
}

// FindByUserID applies the history filters as dynamically built predicates.
// Arguments always go through placeholders; only the predicate list varies.
func (r *PointsReadStore) FindByUserID(
	ctx context.Context,
	userID uuid.UUID,
	filter queries.PointsHistoryFilter,
) ([]*queries.PointsEntryView, int64, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}

	if filter.Days > 0 {
		args = append(args, time.Duration(filter.Days)*24*time.Hour)
		where += " AND created_at >= now() - $" + strconv.Itoa(len(args))
	}
	switch filter.Type {
	case "earn":
		where += " AND delta > 0"
	case "spend":
		where += " AND delta < 0"
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += " AND reason ILIKE $" + strconv.Itoa(len(args))
	}

	var total int64
	countSQL := "SELECT count(*) FROM points_ledger " + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count points entries", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	listSQL := fmt.Sprintf(
		"SELECT id, delta, reason, booking_id, created_at FROM points_ledger %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list points entries", err)
	}
	defer rows.Close()

	entries := make([]*queries.PointsEntryView, 0)
	for rows.Next() {
		var (
			v         queries.PointsEntryView
			bookingID pgtype.UUID
		)
		if err := rows.Scan(&v.ID, &v.Delta, &v.Reason, &bookingID, &v.CreatedAt); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan points entry", err)
		}
		v.BookingID = pgconv.UUIDPtrFromPgtype(bookingID)
		entries = append(entries, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read points entries", err)
	}
	return entries, total, nil
}
