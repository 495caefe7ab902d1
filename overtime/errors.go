package overtime

import "errors"

var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrFutureDate       = errors.New("future date")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrNonPositiveHours = errors.New("non-positive hours")
)

// ValidationError is returned by the validator. It unwraps to one of the
// Err* sentinels so callers can branch with errors.Is.
type ValidationError struct {
	Err     error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(err error, field, message string) *ValidationError {
	return &ValidationError{Err: err, Field: field, Message: message}
}

// Reason returns a short snake_case label for a validation error, suitable
// for metric labels and API payloads. Unknown errors map to "unknown".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, ErrFutureDate):
		return "future_date"
	case errors.Is(err, ErrInvalidTimeRange):
		return "invalid_time_range"
	case errors.Is(err, ErrNonPositiveHours):
		return "non_positive_hours"
	default:
		return "unknown"
	}
}
