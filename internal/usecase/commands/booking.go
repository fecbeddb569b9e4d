package commands

import (
	"context"
	"errors"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/payment"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	UserID     uuid.UUID
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	Source     string
	Deposit    int64
}

type ExtendBookingParams struct {
	BookingID uuid.UUID
	// Kind scopes the lookup when the caller reached the booking through a
	// kind-specific route; empty skips the check.
	Kind     booking.Kind
	Extra    time.Duration
	Amount   int64
	Provider string
}

type BookingCommands interface {
	CreateRoomBooking(ctx context.Context, p CreateBookingParams) (uuid.UUID, error)
	CreateClassBooking(ctx context.Context, p CreateBookingParams) (uuid.UUID, error)
	Extend(ctx context.Context, p ExtendBookingParams) error
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	Confirm(ctx context.Context, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingCommandsImpl{
		uow:   uow,
		clock: clk,
		cfg:   cfg,
	}
}

func (c *bookingCommandsImpl) CreateRoomBooking(ctx context.Context, p CreateBookingParams) (uuid.UUID, error) {
	return c.create(ctx, booking.KindRoom, p)
}

func (c *bookingCommandsImpl) CreateClassBooking(ctx context.Context, p CreateBookingParams) (uuid.UUID, error) {
	return c.create(ctx, booking.KindClassSession, p)
}

func (c *bookingCommandsImpl) create(ctx context.Context, kind booking.Kind, p CreateBookingParams) (uuid.UUID, error) {
	slot, err := booking.NewTimeSlot(p.Start, p.End)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidInterval)
	}

	now := c.clock.Now()
	entity, err := booking.NewBooking(p.UserID, kind, p.ResourceID, slot, booking.Source(p.Source), now, c.cfg.HoldWindow)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		conflicts, err := tx.Bookings().LockOverlapping(ctx, kind, p.ResourceID, slot, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return errs.ErrScheduleConflict
		}

		if err := tx.Bookings().Create(ctx, entity); err != nil {
			return err
		}

		if p.Deposit > 0 {
			deposit, err := payment.NewPayment(entity.ID(), p.Deposit, c.cfg.Currency, payment.TypeDeposit, c.cfg.Provider, now)
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidAmount)
			}
			if err := tx.Payments().Create(ctx, deposit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, mapRepoErr(err)
	}

	return entity.ID(), nil
}

func (c *bookingCommandsImpl) Extend(ctx context.Context, p ExtendBookingParams) error {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindForUpdate(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if p.Kind != "" && entity.Kind() != p.Kind {
			return errs.ErrBookingNotFound
		}

		newSlot, err := entity.Extend(p.Extra, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidationFailed)
		}

		// The booking's own id is excluded, so checking the full extended
		// interval is equivalent to checking just the added tail.
		ownID := entity.ID()
		conflicts, err := tx.Bookings().LockOverlapping(ctx, entity.Kind(), entity.ResourceID(), newSlot, &ownID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return errs.ErrScheduleConflict
		}

		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return err
		}

		if p.Amount > 0 {
			provider := p.Provider
			if provider == "" {
				provider = c.cfg.Provider
			}
			topUp, err := payment.NewPayment(entity.ID(), p.Amount, c.cfg.Currency, payment.TypeBalance, provider, now)
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidAmount)
			}
			if err := tx.Payments().Create(ctx, topUp); err != nil {
				return err
			}
		}
		return nil
	})
	return mapRepoErr(err)
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if err := entity.Cancel(now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidationFailed)
		}

		return tx.Bookings().Update(ctx, entity)
	})
	return mapRepoErr(err)
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, bookingID uuid.UUID) error {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if err := entity.Confirm(now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidationFailed)
		}

		return tx.Bookings().Update(ctx, entity)
	})
	return mapRepoErr(err)
}

var businessSentinels = []error{
	errs.ErrInvalidInterval,
	errs.ErrScheduleConflict,
	errs.ErrBookingNotFound,
	errs.ErrPaymentNotFound,
	errs.ErrUserNotFound,
	errs.ErrInvalidReference,
	errs.ErrInvalidAmount,
	errs.ErrDomainValidationFailed,
	errs.ErrLockTimeout,
}

// mapRepoErr translates infrastructure error kinds into the sentinel
// taxonomy callers switch on. Business sentinels pass through untouched.
func mapRepoErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range businessSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrBookingNotFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrScheduleConflict)
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, errs.ErrInvalidReference)
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(err, errs.ErrLockTimeout)
	case infra.IsKind(err, infra.KindDBFailure):
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	default:
		return err
	}
}
