package api

import (
	"errors"
	"net/http"

	reqdto "facility-booking/internal/handler/dto/request"
	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PointsHandler struct {
	commands commands.PointsCommands
	queries  queries.PointsQueries
}

func NewPointsHandler(cmd commands.PointsCommands, q queries.PointsQueries) *PointsHandler {
	return &PointsHandler{
		commands: cmd,
		queries:  q,
	}
}

// @Summary Adjust a user's points
// @Description Append a ledger entry and update the cached balance
// @Tags points
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body reqdto.AdjustPointsRequest true "Adjustment"
// @Success 200 {object} resdto.AdjustPointsResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id}/points [post]
func (h *PointsHandler) Adjust(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	var req reqdto.AdjustPointsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	balance, err := h.commands.Adjust(c.Request.Context(), commands.AdjustPointsParams{
		UserID:    userID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		BookingID: req.BookingID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AdjustPointsResponse{Balance: balance})
}

// @Summary Points history
// @Description Filtered, paginated ledger entries with the cached balance
// @Tags points
// @Produce json
// @Param id path string true "User ID"
// @Param days query int false "Trailing window in days"
// @Param type query string false "earn or spend"
// @Param search query string false "Reason substring"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PointsHistoryResponse
// @Failure 404 {object} httperr.Response
// @Router /users/{id}/points [get]
func (h *PointsHandler) History(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	var q reqdto.PointsHistoryQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	page, err := h.queries.History(c.Request.Context(), userID, queries.PointsHistoryFilter{
		Days:   q.Days,
		Type:   q.Type,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPointsHistoryPage(page))
}

func (h *PointsHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
	case errors.Is(err, errs.ErrDomainValidationFailed):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Delta must be nonzero and reason is required", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
