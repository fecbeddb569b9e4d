package queries

import (
	"context"
	"time"

	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type PointsEntryView struct {
	ID        uuid.UUID  `json:"id"`
	Delta     int64      `json:"delta"`
	Reason    string     `json:"reason"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PointsHistoryFilter mirrors the admin UI filters: a trailing date window,
// earn/spend direction, and a reason substring search.
type PointsHistoryFilter struct {
	Days   int    // 0 means all time
	Type   string // "earn", "spend" or "" for both
	Search string
	Page   int
	Limit  int
}

type PointsHistoryPage struct {
	Entries []*PointsEntryView `json:"entries"`
	Balance int64              `json:"balance"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Total   int64              `json:"total"`
	Pages   int64              `json:"pages"`
}

type PointsQueries interface {
	History(ctx context.Context, userID uuid.UUID, filter PointsHistoryFilter) (*PointsHistoryPage, error)
}

type PointsViewRepo interface {
	// UserBalance returns the cached balance, failing with a not-found kind
	// when the user does not exist.
	UserBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, filter PointsHistoryFilter) ([]*PointsEntryView, int64, error)
}

type pointsQueriesImpl struct {
	repo PointsViewRepo
}

func NewPointsQueries(repo PointsViewRepo) PointsQueries {
	return &pointsQueriesImpl{repo: repo}
}

func (q *pointsQueriesImpl) History(ctx context.Context, userID uuid.UUID, filter PointsHistoryFilter) (*PointsHistoryPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	balance, err := q.repo.UserBalance(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrUserNotFound)
		}
		return nil, err
	}

	entries, total, err := q.repo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	pages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)

	return &PointsHistoryPage{
		Entries: entries,
		Balance: balance,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Total:   total,
		Pages:   pages,
	}, nil
}
