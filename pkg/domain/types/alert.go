package types

// AlertType identifies what condition raised a compliance alert.
type AlertType string

const (
	AlertTypeOverdueTest AlertType = "Overdue Test"
)

// AlertSeverity grades how urgent a compliance alert is.
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "Info"
	AlertSeverityWarning  AlertSeverity = "Warning"
	AlertSeverityCritical AlertSeverity = "Critical"
)

// AlertStatus tracks the handling state of a compliance alert.
type AlertStatus string

const (
	AlertStatusNew          AlertStatus = "New"
	AlertStatusAcknowledged AlertStatus = "Acknowledged"
	AlertStatusInProgress   AlertStatus = "In Progress"
	AlertStatusResolved     AlertStatus = "Resolved"
)

// IsOpen reports whether the alert still requires attention. An open
// alert suppresses creation of duplicates for the same record.
func (s AlertStatus) IsOpen() bool {
	switch s {
	case AlertStatusNew, AlertStatusAcknowledged, AlertStatusInProgress:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert status.
func (s AlertStatus) String() string {
	return string(s)
}
