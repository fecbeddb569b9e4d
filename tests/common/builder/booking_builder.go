//go:build unit || e2e

package builder

import (
	"time"

	dombooking "facility-booking/internal/domain/booking"
	reqdto "facility-booking/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	UserID     uuid.UUID
	Kind       dombooking.Kind
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	Source     dombooking.Source
	Now        time.Time
	HoldWindow time.Duration
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		UserID:     uuid.New(),
		Kind:       dombooking.KindRoom,
		ResourceID: uuid.New(),
		Start:      now.Add(time.Hour),
		End:        now.Add(2 * time.Hour),
		Source:     dombooking.SourceWeb,
		Now:        now,
		HoldWindow: 10 * time.Minute,
	}
}

func (b *BookingBuilder) WithKind(kind dombooking.Kind) *BookingBuilder {
	b.Kind = kind
	return b
}

func (b *BookingBuilder) WithSource(source dombooking.Source) *BookingBuilder {
	b.Source = source
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	slot, err := dombooking.NewTimeSlot(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(b.UserID, b.Kind, b.ResourceID, slot, b.Source, b.Now, b.HoldWindow)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		UserID:    b.UserID,
		StartTime: b.Start,
		EndTime:   b.End,
		Source:    string(b.Source),
	}
}
