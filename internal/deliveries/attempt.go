package deliveries

import "errors"

var (
	// ErrConflict is returned when an attempt number is already taken for an
	// event/endpoint pair, or when completing an attempt that is not pending.
	// Callers re-read the latest status instead of retrying blindly.
	ErrConflict = errors.New("deliveries: conflict")
	ErrNotFound = errors.New("deliveries: not found")
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusSuccess          Status = "success"
	StatusFailed           Status = "failed"
	StatusTerminallyFailed Status = "terminally_failed"
)

// Terminal reports whether no further attempts may follow this status.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusTerminallyFailed
}

// Completed reports whether s is a valid outcome for a pending attempt.
func (s Status) Completed() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusTerminallyFailed:
		return true
	default:
		return false
	}
}

// Attempt is one outbound send of an event to an endpoint. Timestamps are
// unix milliseconds.
type Attempt struct {
	ID            string
	EventID       string
	EndpointID    string
	TenantID      string
	AttemptNumber int
	Status        Status
	ResponseCode  int
	Signature     string
	Error         string
	CreatedAt     int64
	CompletedAt   *int64
}
