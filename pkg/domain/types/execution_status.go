package types

import "fmt"

// ExecutionStatus tracks the draft/submitted lifecycle of a test
// execution. Submitted executions are immutable until cancelled.
type ExecutionStatus string

const (
	ExecutionStatusDraft     ExecutionStatus = "Draft"
	ExecutionStatusSubmitted ExecutionStatus = "Submitted"
	ExecutionStatusCancelled ExecutionStatus = "Cancelled"
)

// IsValid checks if the execution status is valid.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionStatusDraft, ExecutionStatusSubmitted, ExecutionStatusCancelled:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as ExecutionStatusDraft.
func (s ExecutionStatus) Normalize() ExecutionStatus {
	if s == "" {
		return ExecutionStatusDraft
	}
	return s
}

// String returns the string representation of the execution status.
func (s ExecutionStatus) String() string {
	return string(s)
}

// ParseExecutionStatus parses a string into an ExecutionStatus.
func ParseExecutionStatus(s string) (ExecutionStatus, error) {
	status := ExecutionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid execution status: %s", s)
	}
	return status, nil
}
