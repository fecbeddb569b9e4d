package commands

import (
	"context"

	"facility-booking/internal/domain/payment"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentCommands interface {
	// MarkSettled records a provider outcome (paid or failed) on a pending
	// payment. It never changes the owning booking's status; confirmation
	// is a separate explicit step.
	MarkSettled(ctx context.Context, paymentID uuid.UUID, outcome string) error
}

type paymentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, clk clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{
		uow:   uow,
		clock: clk,
	}
}

func (c *paymentCommandsImpl) MarkSettled(ctx context.Context, paymentID uuid.UUID, outcome string) error {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Payments().FindForUpdate(ctx, paymentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrPaymentNotFound)
			}
			return err
		}

		if err := entity.Settle(payment.Outcome(outcome), now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidationFailed)
		}

		return tx.Payments().Update(ctx, entity)
	})
	return mapRepoErr(err)
}
