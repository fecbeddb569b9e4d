//go:build unit

package booking_test

import (
	"testing"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(booking.Booking{}, booking.TimeSlot{}),
	cmpopts.EquateEmpty(),
}

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusPending, actual.Status())
		require.NotNil(t, actual.HoldExpiresAt())
		assert.Equal(t, b.Now.Add(b.HoldWindow), *actual.HoldExpiresAt())
		assert.Equal(t, b.Now, actual.CreatedAt())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
	})

	t.Run("class session booking", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().WithKind(booking.KindClassSession).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, booking.KindClassSession, actual.Kind())
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().WithKind("sauna").BuildDomain()
		assert.ErrorIs(t, err, booking.ErrInvalidKind)
	})

	t.Run("invalid source rejected", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().WithSource("fax").BuildDomain()
		assert.ErrorIs(t, err, booking.ErrInvalidSource)
	})

	t.Run("reconstruct round trip", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		created, err := b.BuildDomain()
		require.NoError(t, err)

		rebuilt := booking.ReconstructBooking(
			created.ID(), created.UserID(), created.Kind(), created.ResourceID(),
			created.Slot(), created.Status(), created.Source(),
			created.HoldExpiresAt(), created.CreatedAt(), created.UpdatedAt(),
		)
		if diff := cmp.Diff(created, rebuilt, cmpOpts...); diff != "" {
			t.Errorf("Booking mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBookingStateMachine(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	newPending := func(t *testing.T) *booking.Booking {
		t.Helper()
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		return b
	}

	newConfirmed := func(t *testing.T) *booking.Booking {
		t.Helper()
		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		return b
	}

	t.Run("pending to confirmed", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("confirm is pending-only", func(t *testing.T) {
		b := newConfirmed(t)
		assert.ErrorIs(t, b.Confirm(now), booking.ErrNotPending)
	})

	t.Run("cancel pending", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, booking.StatusCanceled, b.Status())
	})

	t.Run("cancel confirmed", func(t *testing.T) {
		b := newConfirmed(t)
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, booking.StatusCanceled, b.Status())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Cancel(now))
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, booking.StatusCanceled, b.Status())
	})

	t.Run("completed booking cannot be canceled", func(t *testing.T) {
		b := newConfirmed(t)
		require.NoError(t, b.Complete(now))
		assert.ErrorIs(t, b.Cancel(now), booking.ErrAlreadyCompleted)
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("complete confirmed", func(t *testing.T) {
		b := newConfirmed(t)
		require.NoError(t, b.Complete(now))
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("complete no-ops on terminal states", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Cancel(now))
		require.NoError(t, b.Complete(now))
		assert.Equal(t, booking.StatusCanceled, b.Status())
	})

	t.Run("complete rejects pending", func(t *testing.T) {
		b := newPending(t)
		assert.ErrorIs(t, b.Complete(now), booking.ErrNotConfirmed)
	})
}

func TestBookingExtend(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("pushes end time out, keeps status", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		originalEnd := b.Slot().End()

		extended, err := b.Extend(90*time.Minute, now)
		require.NoError(t, err)
		assert.Equal(t, originalEnd.Add(90*time.Minute), extended.End())
		assert.Equal(t, extended, b.Slot())
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("terminal booking cannot be extended", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, b.Cancel(now))

		_, err = b.Extend(time.Hour, now)
		assert.ErrorIs(t, err, booking.ErrTerminalState)
	})

	t.Run("non-positive extension rejected", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		_, err = b.Extend(0, now)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})
}

func TestBookingHoldExpired(t *testing.T) {
	b := builder.NewBookingBuilder()

	t.Run("pending hold lapses after window", func(t *testing.T) {
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.False(t, actual.HoldExpired(b.Now))
		assert.False(t, actual.HoldExpired(b.Now.Add(b.HoldWindow-time.Second)))
		assert.True(t, actual.HoldExpired(b.Now.Add(b.HoldWindow)))
		assert.True(t, actual.HoldExpired(b.Now.Add(time.Hour)))
	})

	t.Run("confirmed booking never reports an expired hold", func(t *testing.T) {
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, actual.Confirm(b.Now))

		assert.False(t, actual.HoldExpired(b.Now.Add(24*time.Hour)))
	})
}
