package components

import (
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"
	"facility-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		commands.NewPaymentCommands,
		commands.NewPointsCommands,
		commands.NewHousekeeping,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewPointsQueries,
	),
)

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.BookingCommands {
	return commands.NewBookingCommands(uow, clk, cfg.Booking)
}
