package types

import "fmt"

// DeficiencySeverity classifies the seriousness of an identified control
// weakness, following the SOX deficiency ladder.
type DeficiencySeverity string

const (
	SeverityControlDeficiency     DeficiencySeverity = "Control Deficiency"
	SeveritySignificantDeficiency DeficiencySeverity = "Significant Deficiency"
	SeverityMaterialWeakness      DeficiencySeverity = "Material Weakness"
)

// IsValid checks if the deficiency severity is valid.
func (s DeficiencySeverity) IsValid() bool {
	switch s {
	case SeverityControlDeficiency, SeveritySignificantDeficiency, SeverityMaterialWeakness:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s DeficiencySeverity) String() string {
	return string(s)
}

// DeficiencyStatus represents the remediation status of a deficiency.
type DeficiencyStatus string

const (
	DeficiencyStatusOpen       DeficiencyStatus = "Open"
	DeficiencyStatusInProgress DeficiencyStatus = "In Progress"
	DeficiencyStatusClosed     DeficiencyStatus = "Closed"
)

// IsValid checks if the deficiency status is valid.
func (s DeficiencyStatus) IsValid() bool {
	switch s {
	case DeficiencyStatusOpen, DeficiencyStatusInProgress, DeficiencyStatusClosed:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the deficiency still needs remediation.
func (s DeficiencyStatus) IsOpen() bool {
	return s == DeficiencyStatusOpen || s == DeficiencyStatusInProgress
}

// Normalize returns the status, treating empty as DeficiencyStatusOpen.
func (s DeficiencyStatus) Normalize() DeficiencyStatus {
	if s == "" {
		return DeficiencyStatusOpen
	}
	return s
}

// String returns the string representation of the deficiency status.
func (s DeficiencyStatus) String() string {
	return string(s)
}

// ParseDeficiencyStatus parses a string into a DeficiencyStatus.
func ParseDeficiencyStatus(s string) (DeficiencyStatus, error) {
	status := DeficiencyStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid deficiency status: %s", s)
	}
	return status, nil
}
