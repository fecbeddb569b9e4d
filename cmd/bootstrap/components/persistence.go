package components

import (
	"facility-booking/internal/infra/db"
	"facility-booking/internal/infra/readstore"
	"facility-booking/internal/infra/uow"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase/queries"
	"facility-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		// Points
		fx.Annotate(
			readstore.NewPointsReadStore,
			fx.As(new(queries.PointsViewRepo)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		NewUnitOfWork,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, cfg.Booking)
}
