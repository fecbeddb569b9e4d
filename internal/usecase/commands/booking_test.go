//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/payment"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newBookingFixture(t *testing.T) (commands.BookingCommands, *fake.UnitOfWork, *clock.MockClock) {
	t.Helper()
	uow := fake.NewUnitOfWork()
	clk := clock.NewMockClock(baseTime)
	cfg := config.NewTestConfig().Booking
	return commands.NewBookingCommands(uow, clk, cfg), uow, clk
}

func createParams(start, end time.Time) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		UserID:     uuid.New(),
		ResourceID: uuid.New(),
		Start:      start,
		End:        end,
		Source:     "web",
	}
}

// =============================================================================
// Create
// =============================================================================

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success: booking starts pending with a hold window", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		stored := uow.Store.Bookings[id]
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusPending, stored.Status())
		assert.Equal(t, booking.KindRoom, stored.Kind())
		require.NotNil(t, stored.HoldExpiresAt())
		assert.Equal(t, baseTime.Add(10*time.Minute), *stored.HoldExpiresAt())
	})

	t.Run("success: deposit payment is created in the same transaction", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		p.Deposit = 5000
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		require.Len(t, uow.Store.Payments, 1)
		for _, pay := range uow.Store.Payments {
			assert.Equal(t, id, pay.BookingID())
			assert.Equal(t, int64(5000), pay.Amount())
			assert.Equal(t, payment.TypeDeposit, pay.Type())
			assert.Equal(t, payment.StatusPending, pay.Status())
			assert.Equal(t, "MMK", pay.Currency())
		}
	})

	t.Run("error: overlapping interval on the same resource is rejected", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(3*time.Hour))
		_, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		second := p
		second.UserID = uuid.New()
		second.Start = baseTime.Add(2 * time.Hour)
		second.End = baseTime.Add(4 * time.Hour)
		_, err = svc.CreateRoomBooking(ctx, second)
		assert.ErrorIs(t, err, errs.ErrScheduleConflict)
		assert.Len(t, uow.Store.Bookings, 1)
	})

	t.Run("success: back-to-back bookings do not conflict", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		_, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		second := p
		second.Start = baseTime.Add(2 * time.Hour)
		second.End = baseTime.Add(3 * time.Hour)
		_, err = svc.CreateRoomBooking(ctx, second)
		require.NoError(t, err)
		assert.Len(t, uow.Store.Bookings, 2)
	})

	t.Run("success: same interval on a different resource is allowed", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		_, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		second := p
		second.ResourceID = uuid.New()
		_, err = svc.CreateRoomBooking(ctx, second)
		require.NoError(t, err)
	})

	t.Run("success: room and class bookings never conflict with each other", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		_, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		_, err = svc.CreateClassBooking(ctx, p)
		require.NoError(t, err)
	})

	t.Run("error: end before start", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(2*time.Hour), baseTime.Add(time.Hour))
		_, err := svc.CreateRoomBooking(ctx, p)
		assert.ErrorIs(t, err, errs.ErrInvalidInterval)
	})

	t.Run("error: zero-length interval", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		start := baseTime.Add(time.Hour)
		p := createParams(start, start)
		_, err := svc.CreateRoomBooking(ctx, p)
		assert.ErrorIs(t, err, errs.ErrInvalidInterval)
	})

	t.Run("error: unknown source", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		p.Source = "phone"
		_, err := svc.CreateRoomBooking(ctx, p)
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("success: canceled booking frees its interval", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)
		require.NoError(t, svc.Cancel(ctx, id))

		_, err = svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)
	})
}

func TestBookingCommands_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	svc, uow, _ := newBookingFixture(t)

	p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))

	const writers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := p
			req.UserID = uuid.New()
			_, err := svc.CreateRoomBooking(ctx, req)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var succeeded, conflicted int
	for err := range errCh {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, errs.ErrScheduleConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)
	assert.Len(t, uow.Store.Bookings, 1)
}

// =============================================================================
// Extend
// =============================================================================

func TestBookingCommands_Extend(t *testing.T) {
	ctx := context.Background()

	t.Run("success: end time moves later", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		err = svc.Extend(ctx, commands.ExtendBookingParams{BookingID: id, Extra: 30 * time.Minute})
		require.NoError(t, err)
		assert.Equal(t, baseTime.Add(2*time.Hour+30*time.Minute), uow.Store.Bookings[id].Slot().End())
	})

	t.Run("success: extension payment is recorded", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		err = svc.Extend(ctx, commands.ExtendBookingParams{BookingID: id, Extra: 30 * time.Minute, Amount: 2000})
		require.NoError(t, err)

		require.Len(t, uow.Store.Payments, 1)
		for _, pay := range uow.Store.Payments {
			assert.Equal(t, payment.TypeBalance, pay.Type())
			assert.Equal(t, "KBZPay", pay.Provider())
		}
	})

	t.Run("error: conflicting extension leaves the end time unchanged", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		next := p
		next.UserID = uuid.New()
		next.Start = baseTime.Add(2 * time.Hour)
		next.End = baseTime.Add(3 * time.Hour)
		_, err = svc.CreateRoomBooking(ctx, next)
		require.NoError(t, err)

		err = svc.Extend(ctx, commands.ExtendBookingParams{BookingID: id, Extra: 30 * time.Minute})
		assert.ErrorIs(t, err, errs.ErrScheduleConflict)
		assert.Equal(t, baseTime.Add(2*time.Hour), uow.Store.Bookings[id].Slot().End())
	})

	t.Run("error: canceled booking cannot be extended", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)
		require.NoError(t, svc.Cancel(ctx, id))

		err = svc.Extend(ctx, commands.ExtendBookingParams{BookingID: id, Extra: 30 * time.Minute})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("error: unknown booking", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		err := svc.Extend(ctx, commands.ExtendBookingParams{BookingID: uuid.New(), Extra: 30 * time.Minute})
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("error: kind mismatch behaves as not found", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		p := createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
		id, err := svc.CreateRoomBooking(ctx, p)
		require.NoError(t, err)

		err = svc.Extend(ctx, commands.ExtendBookingParams{
			BookingID: id,
			Kind:      booking.KindClassSession,
			Extra:     30 * time.Minute,
		})
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

// =============================================================================
// Confirm / Cancel
// =============================================================================

func TestBookingCommands_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("success: pending booking is confirmed", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		id, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
		require.NoError(t, err)

		require.NoError(t, svc.Confirm(ctx, id))
		assert.Equal(t, booking.StatusConfirmed, uow.Store.Bookings[id].Status())
	})

	t.Run("error: confirming twice fails", func(t *testing.T) {
		svc, _, _ := newBookingFixture(t)

		id, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
		require.NoError(t, err)
		require.NoError(t, svc.Confirm(ctx, id))

		err = svc.Confirm(ctx, id)
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("success: canceling a canceled booking is a no-op", func(t *testing.T) {
		svc, uow, _ := newBookingFixture(t)

		id, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, id))
		require.NoError(t, svc.Cancel(ctx, id))
		assert.Equal(t, booking.StatusCanceled, uow.Store.Bookings[id].Status())
	})

	t.Run("error: completed booking cannot be canceled", func(t *testing.T) {
		svc, uow, clk := newBookingFixture(t)

		id, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
		require.NoError(t, err)
		require.NoError(t, svc.Confirm(ctx, id))

		clk.Set(baseTime.Add(3 * time.Hour))
		housekeeping := commands.NewHousekeeping(uow, clk)
		n, err := housekeeping.CompleteElapsed(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		err = svc.Cancel(ctx, id)
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})
}

// =============================================================================
// Housekeeping sweeps
// =============================================================================

func TestHousekeeping_ExpireHolds(t *testing.T) {
	ctx := context.Background()
	svc, uow, clk := newBookingFixture(t)
	housekeeping := commands.NewHousekeeping(uow, clk)

	pendingID, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
	require.NoError(t, err)

	confirmed := createParams(baseTime.Add(3*time.Hour), baseTime.Add(4*time.Hour))
	confirmedID, err := svc.CreateRoomBooking(ctx, confirmed)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, confirmedID))

	// Inside the hold window nothing expires.
	n, err := housekeeping.ExpireHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	clk.Add(11 * time.Minute)
	n, err = housekeeping.ExpireHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, booking.StatusCanceled, uow.Store.Bookings[pendingID].Status())
	assert.Equal(t, booking.StatusConfirmed, uow.Store.Bookings[confirmedID].Status())

	// The sweep is idempotent.
	n, err = housekeeping.ExpireHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestHousekeeping_CompleteElapsed(t *testing.T) {
	ctx := context.Background()
	svc, uow, clk := newBookingFixture(t)
	housekeeping := commands.NewHousekeeping(uow, clk)

	id, err := svc.CreateRoomBooking(ctx, createParams(baseTime.Add(time.Hour), baseTime.Add(2*time.Hour)))
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, id))

	// Still running: not completed.
	clk.Set(baseTime.Add(90 * time.Minute))
	n, err := housekeeping.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	clk.Set(baseTime.Add(2 * time.Hour))
	n, err = housekeeping.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, booking.StatusCompleted, uow.Store.Bookings[id].Status())
}
