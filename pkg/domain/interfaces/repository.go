package interfaces

// Repository defines the interface for data persistence.
type Repository interface {
	Risk() RiskRepository
	Control() ControlRepository
	TestExecution() TestExecutionRepository
	Deficiency() DeficiencyRepository
	Alert() AlertRepository
	CaptureRule() CaptureRuleRepository
	Evidence() EvidenceRepository
	Settings() SettingsRepository
	RegulatoryUpdate() RegulatoryUpdateRepository
	RegulatoryChange() RegulatoryChangeRepository
	RegulatoryAssessment() RegulatoryAssessmentRepository
	QueryLog() QueryLogRepository

	Close() error
}
