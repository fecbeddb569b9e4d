package request

import "github.com/google/uuid"

type AdjustPointsRequest struct {
	Delta     int64      `json:"delta" binding:"required"`
	Reason    string     `json:"reason" binding:"required"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

type PointsHistoryQuery struct {
	Days   int    `form:"days"`
	Type   string `form:"type" binding:"omitempty,oneof=earn spend"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
