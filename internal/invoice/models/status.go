package models

import "fmt"

// Status is the invoice lifecycle state. Transitions are monotonic:
// draft → sending → sent-to-client, nothing else.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSending Status = "sending"
	StatusSent    Status = "sent-to-client"
)

// ParseStatus validates a persisted status value during reconstitution.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSending, StatusSent:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
}

// CanTransitionTo reports whether the state machine permits moving to the
// target status. Backward or skipping transitions are never valid.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSending
	case StatusSending:
		return target == StatusSent
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }
