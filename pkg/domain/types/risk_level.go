package types

// RiskLevel is the classified severity band of a residual risk score.
type RiskLevel string

const (
	RiskLevelUnknown  RiskLevel = "Unknown"
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}
