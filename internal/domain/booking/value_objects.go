package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeSlot = errors.New("end time must be after start time")

// TimeSlot is a half-open interval [start, end). Back-to-back slots where
// one ends exactly when the next starts do not overlap.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !end.After(start) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

// ExtendedBy returns a slot with the same start and the end pushed out.
func (ts TimeSlot) ExtendedBy(extra time.Duration) (TimeSlot, error) {
	if extra <= 0 {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return NewTimeSlot(ts.start, ts.end.Add(extra))
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}
