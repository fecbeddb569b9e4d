package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"facility-booking/internal/handler/api"
	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	pointsHandler *api.PointsHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, paymentHandler, pointsHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	pointsHandler *api.PointsHandler,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/rooms/:roomId/book", Handler: bookingHandler.BookRoom},
			{Method: http.MethodPost, Path: "/classes/schedules/:scheduleId/book", Handler: bookingHandler.BookClass},
		})

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodGet, Path: "/:id/payments", Handler: bookingHandler.ListPayments},
				{Method: http.MethodPost, Path: "/:id/extend", Handler: bookingHandler.Extend},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.Confirm},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/payments/:id/settle", Handler: paymentHandler.Settle},
		})

		users := apiGroup.Group("/users")
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "/:id/bookings", Handler: bookingHandler.ListUserBookings},
				{Method: http.MethodPost, Path: "/:id/points", Handler: pointsHandler.Adjust},
				{Method: http.MethodGet, Path: "/:id/points", Handler: pointsHandler.History},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
