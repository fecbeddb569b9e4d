package payment

type Type string

const (
	TypeDeposit Type = "deposit"
	TypeBalance Type = "balance"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeDeposit, TypeBalance:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	default:
		return false
	}
}

// Outcome is the terminal status reported by the payment provider callback.
type Outcome = Status
