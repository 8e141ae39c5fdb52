package memory

import (
	"github.com/grc-lab/attest/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = interfaces.ErrNotFound

// Memory is an in-memory repository for development and tests.
type Memory struct {
	risk        *riskRepository
	control     *controlRepository
	execution   *testExecutionRepository
	deficiency  *deficiencyRepository
	alert       *alertRepository
	captureRule *captureRuleRepository
	evidence    *evidenceRepository
	settings    *settingsRepository
	regUpdate   *regulatoryUpdateRepository
	regChange   *regulatoryChangeRepository
	assessment  *regulatoryAssessmentRepository
	queryLog    *queryLogRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository.
func New() *Memory {
	return &Memory{
		risk:        newRiskRepository(),
		control:     newControlRepository(),
		execution:   newTestExecutionRepository(),
		deficiency:  newDeficiencyRepository(),
		alert:       newAlertRepository(),
		captureRule: newCaptureRuleRepository(),
		evidence:    newEvidenceRepository(),
		settings:    newSettingsRepository(),
		regUpdate:   newRegulatoryUpdateRepository(),
		regChange:   newRegulatoryChangeRepository(),
		assessment:  newRegulatoryAssessmentRepository(),
		queryLog:    newQueryLogRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Control() interfaces.ControlRepository {
	return m.control
}

func (m *Memory) TestExecution() interfaces.TestExecutionRepository {
	return m.execution
}

func (m *Memory) Deficiency() interfaces.DeficiencyRepository {
	return m.deficiency
}

func (m *Memory) Alert() interfaces.AlertRepository {
	return m.alert
}

func (m *Memory) CaptureRule() interfaces.CaptureRuleRepository {
	return m.captureRule
}

func (m *Memory) Evidence() interfaces.EvidenceRepository {
	return m.evidence
}

func (m *Memory) Settings() interfaces.SettingsRepository {
	return m.settings
}

func (m *Memory) RegulatoryUpdate() interfaces.RegulatoryUpdateRepository {
	return m.regUpdate
}

func (m *Memory) RegulatoryChange() interfaces.RegulatoryChangeRepository {
	return m.regChange
}

func (m *Memory) RegulatoryAssessment() interfaces.RegulatoryAssessmentRepository {
	return m.assessment
}

func (m *Memory) QueryLog() interfaces.QueryLogRepository {
	return m.queryLog
}

func (m *Memory) Close() error {
	return nil
}
