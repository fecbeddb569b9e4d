//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO users (id, name, phone, points_balance) VALUES ($1, $2, '', 0)",
		userID, name)
	require.NoError(t, err)

	return userID
}

func CreateTestRoom(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO rooms (id, name, capacity) VALUES ($1, $2, 8)",
		roomID, name)
	require.NoError(t, err)

	return roomID
}

func CreateTestClassSchedule(t *testing.T, db DBLike, title, instructor string) uuid.UUID {
	t.Helper()

	scheduleID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO class_schedules (id, title, instructor, capacity) VALUES ($1, $2, $3, 20)",
		scheduleID, title, instructor)
	require.NoError(t, err)

	return scheduleID
}

// ResetDB truncates all mutable tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"TRUNCATE points_ledger, payments, bookings, class_schedules, rooms, users CASCADE")
	return err
}
