//go:build unit

package payment_test

import (
	"testing"
	"time"

	"facility-booking/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newDeposit(t *testing.T, amount int64) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(uuid.New(), amount, "MMK", payment.TypeDeposit, "KBZPay", now)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("created pending", func(t *testing.T) {
		p := newDeposit(t, 5000)
		assert.NotEqual(t, uuid.Nil, p.ID())
		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Equal(t, int64(5000), p.Amount())
		assert.Equal(t, "MMK", p.Currency())
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		_, err := payment.NewPayment(uuid.New(), 0, "MMK", payment.TypeDeposit, "KBZPay", now)
		assert.ErrorIs(t, err, payment.ErrNonPositiveAmount)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := payment.NewPayment(uuid.New(), -100, "MMK", payment.TypeBalance, "KBZPay", now)
		assert.ErrorIs(t, err, payment.ErrNonPositiveAmount)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := payment.NewPayment(uuid.New(), 100, "MMK", "refund", "KBZPay", now)
		assert.ErrorIs(t, err, payment.ErrInvalidType)
	})
}

func TestPaymentSettle(t *testing.T) {
	t.Run("pending to paid", func(t *testing.T) {
		p := newDeposit(t, 5000)
		require.NoError(t, p.Settle(payment.StatusPaid, now))
		assert.Equal(t, payment.StatusPaid, p.Status())
	})

	t.Run("pending to failed", func(t *testing.T) {
		p := newDeposit(t, 5000)
		require.NoError(t, p.Settle(payment.StatusFailed, now))
		assert.Equal(t, payment.StatusFailed, p.Status())
	})

	t.Run("same outcome twice is a no-op", func(t *testing.T) {
		p := newDeposit(t, 5000)
		require.NoError(t, p.Settle(payment.StatusPaid, now))
		require.NoError(t, p.Settle(payment.StatusPaid, now))
		assert.Equal(t, payment.StatusPaid, p.Status())
	})

	t.Run("flipping a settled payment rejected", func(t *testing.T) {
		p := newDeposit(t, 5000)
		require.NoError(t, p.Settle(payment.StatusPaid, now))
		assert.ErrorIs(t, p.Settle(payment.StatusFailed, now), payment.ErrAlreadySettled)
	})

	t.Run("pending is not a settlement outcome", func(t *testing.T) {
		p := newDeposit(t, 5000)
		assert.ErrorIs(t, p.Settle(payment.StatusPending, now), payment.ErrInvalidOutcome)
	})
}
