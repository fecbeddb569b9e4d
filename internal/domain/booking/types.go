package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// IsActive reports whether a booking in this status still occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Kind string

const (
	KindRoom         Kind = "room"
	KindClassSession Kind = "class_session"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindRoom, KindClassSession:
		return true
	default:
		return false
	}
}

type Source string

const (
	SourceWeb    Source = "web"
	SourceMobile Source = "mobile"
	SourceWalkIn Source = "walkin"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	switch s {
	case SourceWeb, SourceMobile, SourceWalkIn:
		return true
	default:
		return false
	}
}
