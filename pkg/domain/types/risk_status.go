package types

import "fmt"

// RiskStatus represents the lifecycle status of a risk register entry.
type RiskStatus string

const (
	RiskStatusOpen      RiskStatus = "Open"
	RiskStatusMitigated RiskStatus = "Mitigated"
	RiskStatusAccepted  RiskStatus = "Accepted"
	RiskStatusClosed    RiskStatus = "Closed"
)

// AllRiskStatuses returns all valid risk statuses.
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusOpen,
		RiskStatusMitigated,
		RiskStatusAccepted,
		RiskStatusClosed,
	}
}

// IsValid checks if the risk status is valid.
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusOpen, RiskStatusMitigated, RiskStatusAccepted, RiskStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as RiskStatusOpen.
func (s RiskStatus) Normalize() RiskStatus {
	if s == "" {
		return RiskStatusOpen
	}
	return s
}

// String returns the string representation of the risk status.
func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus.
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
