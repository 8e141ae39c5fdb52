package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/gollem"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/model/config"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
)

// UseCases bundles the application services around one repository. The
// hook registry routes lifecycle events (validate, on_update,
// on_submit, before_cancel) to their handlers; the wiring is fixed
// here at construction time.
type UseCases struct {
	repo    interfaces.Repository
	hooks   *hook.Registry
	catalog *config.Catalog
	llm     gollem.LLMClient
	now     func() time.Time

	Risk          *RiskUseCase
	Control       *ControlUseCase
	TestExecution *TestExecutionUseCase
	Deficiency    *DeficiencyUseCase
	CaptureRule   *CaptureRuleUseCase
	Evidence      *EvidenceUseCase
	Alert         *AlertUseCase
	Settings      *SettingsUseCase
	Digest        *DigestUseCase
	Report        *ReportUseCase
	Regulatory    *RegulatoryUseCase
	Assistant     *AssistantUseCase
	Maintenance   *MaintenanceUseCase
}

type Option func(*UseCases)

// WithCatalog provides the rating scales and COSO principle reference
// data used by validation.
func WithCatalog(catalog *config.Catalog) Option {
	return func(uc *UseCases) {
		uc.catalog = catalog
	}
}

// WithNow overrides the clock, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithLLM provides the language model client used by the assistant. A
// nil client leaves the assistant on its rule-based parser.
func WithLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		hooks: hook.New(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Settings = NewSettingsUseCase(repo)
	uc.Risk = NewRiskUseCase(repo, uc.hooks, uc.Settings)
	uc.Control = NewControlUseCase(repo, uc.hooks, uc.catalog)
	uc.Evidence = NewEvidenceUseCase(repo, uc.now)
	uc.TestExecution = NewTestExecutionUseCase(repo, uc.hooks, uc.Settings, uc.now)
	uc.Deficiency = NewDeficiencyUseCase(repo, uc.hooks, uc.now)
	uc.CaptureRule = NewCaptureRuleUseCase(repo, uc.hooks)
	uc.Alert = NewAlertUseCase(repo, uc.Settings, uc.now)
	uc.Digest = NewDigestUseCase(repo, uc.Settings, uc.now)
	uc.Report = NewReportUseCase(repo, uc.Settings, uc.now)
	uc.Regulatory = NewRegulatoryUseCase(repo, uc.hooks, uc.now)
	uc.Assistant = NewAssistantUseCase(repo, uc.Settings, uc.llm, uc.now)
	uc.Maintenance = NewMaintenanceUseCase(repo)

	uc.registerHooks()

	return uc
}

// registerHooks wires every lifecycle handler. Validation handlers run
// before any persistence; the on_submit handler captures evidence
// after a test execution is finalized.
func (uc *UseCases) registerHooks() {
	uc.hooks.On(types.DocKindRisk, types.EventValidate, func(ctx context.Context, doc any) error {
		return validateRisk(doc.(*model.Risk))
	})

	uc.hooks.On(types.DocKindControl, types.EventValidate, func(ctx context.Context, doc any) error {
		return uc.Control.validate(doc.(*model.Control))
	})

	uc.hooks.On(types.DocKindTestExecution, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.TestExecution).Validate()
	})

	uc.hooks.On(types.DocKindDeficiency, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.Deficiency).Validate(uc.now().UTC())
	})

	uc.hooks.On(types.DocKindCaptureRule, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.CaptureRule).Validate()
	})

	uc.hooks.On(types.DocKindRegulatoryUpdate, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.RegulatoryUpdate).Validate()
	})

	uc.hooks.On(types.DocKindRegulatoryChange, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.RegulatoryChange).Validate()
	})

	uc.hooks.On(types.DocKindRegulatoryAssessment, types.EventValidate, func(ctx context.Context, doc any) error {
		return doc.(*model.RegulatoryAssessment).Validate(uc.now().UTC())
	})

	uc.hooks.On(types.DocKindTestExecution, types.EventOnSubmit, func(ctx context.Context, doc any) error {
		return uc.Evidence.captureForSubmit(ctx, doc.(*model.TestExecution))
	})
}

// Close releases the underlying repository.
func (uc *UseCases) Close() error {
	return uc.repo.Close()
}
