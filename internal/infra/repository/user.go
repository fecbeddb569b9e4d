package repository

import (
	"context"
	"time"

	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

const lockBalanceSQL = `
SELECT points_balance FROM users WHERE id = $1 FOR UPDATE`

// LockBalance serializes concurrent ledger writes for one user on the user
// row, so the cached balance and the ledger move together.
func (r *UserRepository) LockBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, lockBalanceSQL, userID).Scan(&balance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to lock user balance", err)
	}
	return balance, nil
}

const addToBalanceSQL = `
UPDATE users
SET points_balance = points_balance + $2, updated_at = $3
WHERE id = $1
RETURNING points_balance`

func (r *UserRepository) AddToBalance(ctx context.Context, userID uuid.UUID, delta int64, now time.Time) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, addToBalanceSQL, userID, delta, now).Scan(&balance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to update user balance", err)
	}
	return balance, nil
}
