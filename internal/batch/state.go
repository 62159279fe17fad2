package batch

import "github.com/google/uuid"

// State is a step of one submission.
type State int

const (
	StateIdle State = iota
	StateLoadingAccount
	StateAssembling
	StateSigning
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingAccount:
		return "loading-account"
	case StateAssembling:
		return "assembling"
	case StateSigning:
		return "signing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool { return s == StateSucceeded || s == StateFailed }

// Status is a progress report emitted on every transition.
type Status struct {
	ID      uuid.UUID
	State   State
	Message string
}
