package errs

import "errors"

// Sentinel errors shared by the command/query layers
var (
	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrInvalidInterval  = errors.New("invalid time interval")
	ErrInvalidReference = errors.New("referenced record does not exist")

	// Payment errors
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("payment amount must be positive")

	// Points errors
	ErrUserNotFound = errors.New("user not found")

	// Operation errors
	ErrLockTimeout             = errors.New("lock wait timeout")
	ErrDomainValidationFailed  = errors.New("domain validation failed")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
