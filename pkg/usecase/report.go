package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/types"
)

// HeatMapCell is one likelihood/impact bucket of the risk heat map.
type HeatMapCell struct {
	Likelihood int
	Impact     int
	Count      int
	Level      types.RiskLevel
}

// RiskHeatMap buckets risks by their residual likelihood and impact
// scores.
type RiskHeatMap struct {
	Cells []HeatMapCell
	// Unrated counts risks that could not be placed on the map
	// because a residual rating is missing.
	Unrated int
}

// ControlStatusSummary aggregates the control population by lifecycle
// status and by the rolling result of the most recent test.
type ControlStatusSummary struct {
	ByStatus    map[types.ControlStatus]int
	ByResult    map[types.TestResult]int
	KeyControls int
	Overdue     int
	Total       int
}

// ReportUseCase builds aggregate views over the register. Reports are
// read-only and always computed from current records.
type ReportUseCase struct {
	repo     interfaces.Repository
	settings *SettingsUseCase
	now      func() time.Time
}

func NewReportUseCase(repo interfaces.Repository, settings *SettingsUseCase, now func() time.Time) *ReportUseCase {
	return &ReportUseCase{
		repo:     repo,
		settings: settings,
		now:      now,
	}
}

// HeatMap builds the residual risk heat map. Classification of each
// cell needs the configured thresholds, so missing settings fail the
// report rather than rendering unlabelled cells.
func (uc *ReportUseCase) HeatMap(ctx context.Context) (*RiskHeatMap, error) {
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrThresholdsNotConfigured, "cannot build heat map")
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, err
	}

	type cellKey struct{ likelihood, impact int }
	counts := make(map[cellKey]int)
	report := &RiskHeatMap{}

	for _, risk := range risks {
		l := risk.ResidualLikelihood.Score()
		i := risk.ResidualImpact.Score()
		if l == 0 || i == 0 {
			report.Unrated++
			continue
		}
		counts[cellKey{likelihood: l, impact: i}]++
	}

	for key, count := range counts {
		level, err := settings.Classify(key.likelihood * key.impact)
		if err != nil {
			return nil, err
		}
		report.Cells = append(report.Cells, HeatMapCell{
			Likelihood: key.likelihood,
			Impact:     key.impact,
			Count:      count,
			Level:      level,
		})
	}

	return report, nil
}

// ControlStatus summarizes the control population, including how many
// active controls are overdue for testing as of now.
func (uc *ReportUseCase) ControlStatus(ctx context.Context) (*ControlStatusSummary, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ControlStatusSummary{
		ByStatus: make(map[types.ControlStatus]int),
		ByResult: make(map[types.TestResult]int),
		Total:    len(controls),
	}
	asOf := uc.now().UTC()
	for _, c := range controls {
		summary.ByStatus[c.Status]++
		result := c.LastTestResult
		if result == "" {
			result = types.TestResultNotTested
		}
		summary.ByResult[result]++
		if c.IsKeyControl {
			summary.KeyControls++
		}
		if c.IsOverdue(asOf) {
			summary.Overdue++
		}
	}

	return summary, nil
}
