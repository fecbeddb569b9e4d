package response

import (
	"time"

	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PointsEntryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Delta     int64      `json:"delta"`
	Reason    string     `json:"reason"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PointsHistoryResponse struct {
	Entries []*PointsEntryResponse `json:"entries"`
	Balance int64                  `json:"balance"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	Total   int64                  `json:"total"`
	Pages   int64                  `json:"pages"`
}

type AdjustPointsResponse struct {
	Balance int64 `json:"balance"`
}

func FromPointsHistoryPage(rm *queries.PointsHistoryPage) *PointsHistoryResponse {
	entries := make([]*PointsEntryResponse, len(rm.Entries))
	for i, e := range rm.Entries {
		var resp PointsEntryResponse
		_ = copier.Copy(&resp, e)
		entries[i] = &resp
	}
	return &PointsHistoryResponse{
		Entries: entries,
		Balance: rm.Balance,
		Page:    rm.Page,
		Limit:   rm.Limit,
		Total:   rm.Total,
		Pages:   rm.Pages,
	}
}
