package types

import "fmt"

// ControlStatus represents the lifecycle status of a control activity.
type ControlStatus string

const (
	ControlStatusDraft    ControlStatus = "Draft"
	ControlStatusActive   ControlStatus = "Active"
	ControlStatusInactive ControlStatus = "Inactive"
	ControlStatusRetired  ControlStatus = "Retired"
)

// IsValid checks if the control status is valid.
func (s ControlStatus) IsValid() bool {
	switch s {
	case ControlStatusDraft, ControlStatusActive, ControlStatusInactive, ControlStatusRetired:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as ControlStatusDraft.
func (s ControlStatus) Normalize() ControlStatus {
	if s == "" {
		return ControlStatusDraft
	}
	return s
}

// String returns the string representation of the control status.
func (s ControlStatus) String() string {
	return string(s)
}

// ParseControlStatus parses a string into a ControlStatus.
func ParseControlStatus(s string) (ControlStatus, error) {
	status := ControlStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid control status: %s", s)
	}
	return status, nil
}
