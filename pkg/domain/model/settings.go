package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Settings is the single process-wide compliance configuration record.
// There is exactly one per deployment; it is persisted through
// SettingsRepository rather than read from a file so that threshold
// changes take effect without a restart.
type Settings struct {
	HighRiskThreshold     int
	CriticalRiskThreshold int
	// MediumRiskThreshold is optional. 0 disables the medium band.
	MediumRiskThreshold int

	AutoCreateDeficiency     bool
	EnableComplianceFeatures bool
	SendWeeklyDigest         bool
	DaysBeforeTestReminder   int

	UpdatedAt time.Time
}

// Validate enforces the threshold ordering invariant at save time.
func (s *Settings) Validate() error {
	if s.HighRiskThreshold != 0 && s.CriticalRiskThreshold != 0 {
		if s.HighRiskThreshold >= s.CriticalRiskThreshold {
			return goerr.New("high risk threshold must be less than critical risk threshold",
				goerr.V("high", s.HighRiskThreshold),
				goerr.V("critical", s.CriticalRiskThreshold))
		}
	}
	return nil
}

// Classify maps a residual risk score onto a risk level using the
// configured thresholds. An unset score (0) classifies as Unknown
// before the thresholds are consulted. Missing critical or high
// thresholds are a configuration error; the medium threshold is
// optional.
func (s *Settings) Classify(score int) (types.RiskLevel, error) {
	if score == 0 {
		return types.RiskLevelUnknown, nil
	}

	if s.CriticalRiskThreshold == 0 || s.HighRiskThreshold == 0 {
		return "", goerr.New("risk thresholds are not configured",
			goerr.V("high", s.HighRiskThreshold),
			goerr.V("critical", s.CriticalRiskThreshold))
	}

	switch {
	case score >= s.CriticalRiskThreshold:
		return types.RiskLevelCritical, nil
	case score >= s.HighRiskThreshold:
		return types.RiskLevelHigh, nil
	case s.MediumRiskThreshold != 0 && score >= s.MediumRiskThreshold:
		return types.RiskLevelMedium, nil
	default:
		return types.RiskLevelLow, nil
	}
}
