//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"

	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPointsFixture(t *testing.T) (commands.PointsCommands, *fake.UnitOfWork, uuid.UUID) {
	t.Helper()
	uow := fake.NewUnitOfWork()
	clk := clock.NewMockClock(baseTime)

	userID := uuid.New()
	uow.Store.UserBalances[userID] = 0

	return commands.NewPointsCommands(uow, clk), uow, userID
}

func TestPointsCommands_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("success: earn updates the cached balance", func(t *testing.T) {
		svc, uow, userID := newPointsFixture(t)

		balance, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: 100, Reason: "visit bonus"})
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance)
		assert.Equal(t, balance, uow.Store.LedgerSum(userID))
	})

	t.Run("success: balance may go negative", func(t *testing.T) {
		svc, uow, userID := newPointsFixture(t)

		balance, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: -250, Reason: "manual correction"})
		require.NoError(t, err)
		assert.Equal(t, int64(-250), balance)
		assert.Equal(t, balance, uow.Store.LedgerSum(userID))
	})

	t.Run("success: cached balance always equals the ledger sum", func(t *testing.T) {
		svc, uow, userID := newPointsFixture(t)

		deltas := []int64{100, -30, 500, -600, 70}
		for _, d := range deltas {
			_, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: d, Reason: "adjustment"})
			require.NoError(t, err)
		}

		assert.Equal(t, uow.Store.LedgerSum(userID), uow.Store.UserBalances[userID])
		assert.Len(t, uow.Store.PointsEntries, len(deltas))
	})

	t.Run("success: concurrent adjustments keep the invariant", func(t *testing.T) {
		svc, uow, userID := newPointsFixture(t)

		const writers = 10
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(delta int64) {
				defer wg.Done()
				_, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: delta, Reason: "spend"})
				assert.NoError(t, err)
			}(int64(i + 1))
		}
		wg.Wait()

		assert.Equal(t, uow.Store.LedgerSum(userID), uow.Store.UserBalances[userID])
	})

	t.Run("error: zero delta", func(t *testing.T) {
		svc, uow, userID := newPointsFixture(t)

		_, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: 0, Reason: "noop"})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
		assert.Empty(t, uow.Store.PointsEntries)
	})

	t.Run("error: blank reason", func(t *testing.T) {
		svc, _, userID := newPointsFixture(t)

		_, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: userID, Delta: 10, Reason: "   "})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("error: unknown user leaves the ledger untouched", func(t *testing.T) {
		svc, uow, _ := newPointsFixture(t)

		_, err := svc.Adjust(ctx, commands.AdjustPointsParams{UserID: uuid.New(), Delta: 10, Reason: "visit bonus"})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Empty(t, uow.Store.PointsEntries)
	})
}
