package commands

import (
	"context"

	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/usecase/shared"
)

// Housekeeping holds the time-driven sweeps that keep booking state honest.
// Neither sweep is on the request path; an un-swept expired hold still
// occupies its interval until the next tick, which is deliberate
// back-pressure rather than a correctness problem.
type Housekeeping interface {
	// ExpireHolds cancels pending bookings whose hold window has lapsed.
	ExpireHolds(ctx context.Context) (int64, error)
	// CompleteElapsed marks confirmed bookings whose slot has passed as
	// completed.
	CompleteElapsed(ctx context.Context) (int64, error)
}

type housekeepingImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewHousekeeping(uow shared.UnitOfWork, clk clock.Clock) Housekeeping {
	return &housekeepingImpl{
		uow:   uow,
		clock: clk,
	}
}

func (h *housekeepingImpl) ExpireHolds(ctx context.Context) (int64, error) {
	now := h.clock.Now()

	var expired int64
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().ExpirePendingBefore(ctx, now)
		if err != nil {
			return err
		}
		expired = n
		return nil
	})
	if err != nil {
		return 0, mapRepoErr(err)
	}
	return expired, nil
}

func (h *housekeepingImpl) CompleteElapsed(ctx context.Context) (int64, error) {
	now := h.clock.Now()

	var completed int64
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().CompleteElapsedBefore(ctx, now)
		if err != nil {
			return err
		}
		completed = n
		return nil
	})
	if err != nil {
		return 0, mapRepoErr(err)
	}
	return completed, nil
}
