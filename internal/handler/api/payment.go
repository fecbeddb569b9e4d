package api

import (
	"errors"
	"net/http"

	reqdto "facility-booking/internal/handler/dto/request"
	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(cmd commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: cmd}
}

// @Summary Settle a payment
// @Description Record the provider outcome for a pending payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body reqdto.SettlePaymentRequest true "Settlement outcome"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/settle [post]
func (h *PaymentHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", nil)
		return
	}

	var req reqdto.SettlePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	err = h.commands.MarkSettled(c.Request.Context(), id, req.Outcome)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
		case errors.Is(err, errs.ErrDomainValidationFailed):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment is already settled with a different outcome", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
