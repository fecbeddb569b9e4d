package components

import (
	"facility-booking/internal/handler"
	"facility-booking/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewPointsHandler,
	),
	fx.Invoke(handler.NewRouter),
)
