package types

// RegulatoryUpdateStatus tracks an ingested regulatory update through
// review.
type RegulatoryUpdateStatus string

const (
	RegulatoryUpdateStatusNew            RegulatoryUpdateStatus = "New"
	RegulatoryUpdateStatusReviewed       RegulatoryUpdateStatus = "Reviewed"
	RegulatoryUpdateStatusActionRequired RegulatoryUpdateStatus = "Action Required"
)

// IsValid checks if the regulatory update status is valid.
func (s RegulatoryUpdateStatus) IsValid() bool {
	switch s {
	case RegulatoryUpdateStatusNew, RegulatoryUpdateStatusReviewed, RegulatoryUpdateStatusActionRequired:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as New.
func (s RegulatoryUpdateStatus) Normalize() RegulatoryUpdateStatus {
	if s == "" {
		return RegulatoryUpdateStatusNew
	}
	return s
}

// String returns the string representation of the update status.
func (s RegulatoryUpdateStatus) String() string {
	return string(s)
}

// ChangeSeverity grades how disruptive a detected regulatory change is.
type ChangeSeverity string

const (
	ChangeSeverityMinor    ChangeSeverity = "Minor"
	ChangeSeverityModerate ChangeSeverity = "Moderate"
	ChangeSeverityMajor    ChangeSeverity = "Major"
	ChangeSeverityCritical ChangeSeverity = "Critical"
)

// IsValid checks if the change severity is valid.
func (s ChangeSeverity) IsValid() bool {
	switch s {
	case ChangeSeverityMinor, ChangeSeverityModerate, ChangeSeverityMajor, ChangeSeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the change severity.
func (s ChangeSeverity) String() string {
	return string(s)
}

// ChangeStatus tracks a regulatory change through analysis and impact
// assessment.
type ChangeStatus string

const (
	ChangeStatusDetected       ChangeStatus = "Detected"
	ChangeStatusAnalyzed       ChangeStatus = "Analyzed"
	ChangeStatusImpactAssessed ChangeStatus = "Impact Assessed"
)

// IsValid checks if the change status is valid.
func (s ChangeStatus) IsValid() bool {
	switch s {
	case ChangeStatusDetected, ChangeStatusAnalyzed, ChangeStatusImpactAssessed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as Detected.
func (s ChangeStatus) Normalize() ChangeStatus {
	if s == "" {
		return ChangeStatusDetected
	}
	return s
}

// String returns the string representation of the change status.
func (s ChangeStatus) String() string {
	return string(s)
}

// ImpactType describes what a regulatory change means for a mapped
// control.
type ImpactType string

const (
	ImpactTypeReviewRequired   ImpactType = "Review Required"
	ImpactTypeModifyExisting   ImpactType = "Modify Existing"
	ImpactTypeNewControlNeeded ImpactType = "New Control Needed"
)

// IsValid checks if the impact type is valid.
func (t ImpactType) IsValid() bool {
	switch t {
	case ImpactTypeReviewRequired, ImpactTypeModifyExisting, ImpactTypeNewControlNeeded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the impact type.
func (t ImpactType) String() string {
	return string(t)
}

// AssessmentStatus tracks a regulatory impact assessment through
// resolution.
type AssessmentStatus string

const (
	AssessmentStatusPending        AssessmentStatus = "Pending"
	AssessmentStatusInProgress     AssessmentStatus = "In Progress"
	AssessmentStatusControlUpdated AssessmentStatus = "Control Updated"
	AssessmentStatusNoActionNeeded AssessmentStatus = "No Action Needed"
)

// IsValid checks if the assessment status is valid.
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case AssessmentStatusPending, AssessmentStatusInProgress,
		AssessmentStatusControlUpdated, AssessmentStatusNoActionNeeded:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the assessment still needs a decision.
func (s AssessmentStatus) IsOpen() bool {
	return s == AssessmentStatusPending || s == AssessmentStatusInProgress
}

// Normalize returns the status, treating empty as Pending.
func (s AssessmentStatus) Normalize() AssessmentStatus {
	if s == "" {
		return AssessmentStatusPending
	}
	return s
}

// String returns the string representation of the assessment status.
func (s AssessmentStatus) String() string {
	return string(s)
}

// AssessmentPriority ranks how urgently an impact assessment needs
// attention.
type AssessmentPriority string

const (
	AssessmentPriorityLow      AssessmentPriority = "Low"
	AssessmentPriorityMedium   AssessmentPriority = "Medium"
	AssessmentPriorityHigh     AssessmentPriority = "High"
	AssessmentPriorityCritical AssessmentPriority = "Critical"
)

// PriorityForSeverity maps a change severity onto the assessment
// priority ladder.
func PriorityForSeverity(severity ChangeSeverity) AssessmentPriority {
	switch severity {
	case ChangeSeverityCritical:
		return AssessmentPriorityCritical
	case ChangeSeverityMajor:
		return AssessmentPriorityHigh
	case ChangeSeverityModerate:
		return AssessmentPriorityMedium
	case ChangeSeverityMinor:
		return AssessmentPriorityLow
	default:
		return AssessmentPriorityMedium
	}
}

// String returns the string representation of the priority.
func (p AssessmentPriority) String() string {
	return string(p)
}
