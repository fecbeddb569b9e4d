package commands

import (
	"context"

	"facility-booking/internal/domain/points"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type AdjustPointsParams struct {
	UserID    uuid.UUID
	Delta     int64
	Reason    string
	BookingID *uuid.UUID
}

type PointsCommands interface {
	// Adjust appends a ledger entry and updates the cached balance in one
	// transaction, returning the new balance. The balance may go negative.
	Adjust(ctx context.Context, p AdjustPointsParams) (int64, error)
}

type pointsCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPointsCommands(uow shared.UnitOfWork, clk clock.Clock) PointsCommands {
	return &pointsCommandsImpl{
		uow:   uow,
		clock: clk,
	}
}

func (c *pointsCommandsImpl) Adjust(ctx context.Context, p AdjustPointsParams) (int64, error) {
	now := c.clock.Now()

	entry, err := points.NewEntry(p.UserID, p.Delta, p.Reason, p.BookingID, now)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	var newBalance int64
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Lock the user row so the ledger insert and the balance update are
		// serialized per user.
		if _, err := tx.Users().LockBalance(ctx, p.UserID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrUserNotFound)
			}
			return err
		}

		if err := tx.Points().Insert(ctx, entry); err != nil {
			return err
		}

		balance, err := tx.Users().AddToBalance(ctx, p.UserID, p.Delta, now)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		return 0, mapRepoErr(err)
	}

	return newBalance, nil
}
