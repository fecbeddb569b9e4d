package repository

import (
	"context"

	"facility-booking/internal/domain/points"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"
)

type PointsRepository struct {
	db db.DBTX
}

func NewPointsRepository(dbtx db.DBTX) *PointsRepository {
	return &PointsRepository{db: dbtx}
}

const insertEntrySQL = `
INSERT INTO points_ledger (id, user_id, delta, reason, booking_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *PointsRepository) Insert(ctx context.Context, e *points.Entry) error {
	_, err := r.db.Exec(ctx, insertEntrySQL,
		e.ID(), e.UserID(), e.Delta(), e.Reason(),
		pgconv.UUIDPtrToPgtype(e.BookingID()), e.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert points entry", err)
	}
	return nil
}
