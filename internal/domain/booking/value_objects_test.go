//go:build unit

package booking_test

import (
	"testing"
	"time"

	"facility-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func slot(t *testing.T, startOffset, endOffset time.Duration) booking.TimeSlot {
	t.Helper()
	s, err := booking.NewTimeSlot(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return s
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("valid slot", func(t *testing.T) {
		s, err := booking.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, s.Start())
		assert.Equal(t, base.Add(time.Hour), s.End())
		assert.Equal(t, time.Hour, s.Duration())
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base.Add(-time.Minute))
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	testCases := []struct {
		name     string
		a        booking.TimeSlot
		b        booking.TimeSlot
		expected bool
	}{
		{
			name:     "identical slots overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 0, time.Hour),
			expected: true,
		},
		{
			name:     "partial overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 30*time.Minute, 90*time.Minute),
			expected: true,
		},
		{
			name:     "containment",
			a:        slot(t, 0, 2*time.Hour),
			b:        slot(t, 30*time.Minute, time.Hour),
			expected: true,
		},
		{
			name:     "back-to-back does not overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, time.Hour, 2*time.Hour),
			expected: false,
		},
		{
			name:     "disjoint",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 3*time.Hour, 4*time.Hour),
			expected: false,
		},
		{
			name:     "one minute overlap at boundary",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 59*time.Minute, 2*time.Hour),
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Overlaps(tc.b))
			// Overlap is symmetric
			assert.Equal(t, tc.expected, tc.b.Overlaps(tc.a))
		})
	}
}

func TestTimeSlotExtendedBy(t *testing.T) {
	t.Run("extends end only", func(t *testing.T) {
		s := slot(t, 0, time.Hour)
		extended, err := s.ExtendedBy(30 * time.Minute)
		require.NoError(t, err)
		assert.Equal(t, s.Start(), extended.Start())
		assert.Equal(t, s.End().Add(30*time.Minute), extended.End())
	})

	t.Run("zero extension rejected", func(t *testing.T) {
		s := slot(t, 0, time.Hour)
		_, err := s.ExtendedBy(0)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})

	t.Run("negative extension rejected", func(t *testing.T) {
		s := slot(t, 0, time.Hour)
		_, err := s.ExtendedBy(-time.Minute)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})
}
