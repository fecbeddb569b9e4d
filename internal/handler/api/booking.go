package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	reqdto "facility-booking/internal/handler/dto/request"
	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmd commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: cmd,
		queries:  q,
	}
}

// @Summary Book a room
// @Description Create a pending room booking for the given interval
// @Tags bookings
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /rooms/{roomId}/book [post]
func (h *BookingHandler) BookRoom(c *gin.Context) {
	h.createBooking(c, "roomId", h.commands.CreateRoomBooking)
}

// @Summary Book a class session
// @Description Create a pending booking on a class schedule
// @Tags bookings
// @Accept json
// @Produce json
// @Param scheduleId path string true "Class schedule ID"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /classes/schedules/{scheduleId}/book [post]
func (h *BookingHandler) BookClass(c *gin.Context) {
	h.createBooking(c, "scheduleId", h.commands.CreateClassBooking)
}

func (h *BookingHandler) createBooking(
	c *gin.Context,
	param string,
	create func(ctx context.Context, p commands.CreateBookingParams) (uuid.UUID, error),
) {
	resourceID, err := uuid.Parse(c.Param(param))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	id, err := create(c.Request.Context(), commands.CreateBookingParams{
		UserID:     req.UserID,
		ResourceID: resourceID,
		Start:      req.StartTime,
		End:        req.EndTime,
		Source:     req.GetSource(),
		Deposit:    req.Deposit,
	})
	if err != nil {
		h.renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{ID: id})
}

// @Summary Extend a booking
// @Description Push the booking's end time later after re-checking conflicts
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.ExtendBookingRequest true "Extension request"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/extend [post]
func (h *BookingHandler) Extend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.ExtendBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	err = h.commands.Extend(c.Request.Context(), commands.ExtendBookingParams{
		BookingID: id,
		Extra:     time.Duration(req.ExtraMinutes) * time.Minute,
		Amount:    req.Amount,
		Provider:  req.Provider,
	})
	if err != nil {
		h.renderCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.commands.Cancel)
}

// @Summary Confirm a booking
// @Description Move a pending booking to confirmed before its hold lapses
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.commands.Confirm)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.renderCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List a user's bookings
// @Tags bookings
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.BookingListResponse
// @Router /users/{id}/bookings [get]
func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	var q reqdto.ListBookingsQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	items, err := h.queries.ListByUser(c.Request.Context(), userID, q.Limit, q.Offset)
	if err != nil {
		h.renderCommandError(c, err)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary List a booking's payments
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {array} resdto.PaymentResponse
// @Router /bookings/{id}/payments [get]
func (h *BookingHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	views, err := h.queries.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.renderCommandError(c, err)
		return
	}

	response := make([]*resdto.PaymentResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromPaymentView(v)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) renderCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "End time must be after start time", nil)
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrInvalidReference):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Referenced resource or user not found", nil)
	case errors.Is(err, errs.ErrScheduleConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested interval conflicts with an existing booking", nil)
	case errors.Is(err, errs.ErrLockTimeout):
		httperr.AbortWithError(c, http.StatusConflict, err, "Resource is busy, please retry", nil)
	case errors.Is(err, errs.ErrInvalidAmount):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Amount must be positive", nil)
	case errors.Is(err, errs.ErrDomainValidationFailed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking state does not allow this operation", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
