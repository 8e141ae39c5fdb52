package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/utils/logging"
	"github.com/grc-lab/attest/pkg/utils/safe"
)

// demoMarker prefixes the title or name of seeded demonstration
// records so they can be purged without touching real data.
const demoMarker = "[DEMO]"

// PurgeResult counts deleted records per kind.
type PurgeResult struct {
	Risks                 int
	Controls              int
	TestExecutions        int
	Deficiencies          int
	Alerts                int
	CaptureRules          int
	Evidence              int
	RegulatoryUpdates     int
	RegulatoryChanges     int
	RegulatoryAssessments int
	QueryLogs             int
}

// Total returns the number of deleted records across all kinds.
func (r *PurgeResult) Total() int {
	return r.Risks + r.Controls + r.TestExecutions + r.Deficiencies +
		r.Alerts + r.CaptureRules + r.Evidence +
		r.RegulatoryUpdates + r.RegulatoryChanges + r.RegulatoryAssessments +
		r.QueryLogs
}

// MaintenanceUseCase implements destructive maintenance commands.
// Deletion is best-effort per record: a single failure is logged and
// skipped so a partial purge can be re-run.
type MaintenanceUseCase struct {
	repo interfaces.Repository
}

func NewMaintenanceUseCase(repo interfaces.Repository) *MaintenanceUseCase {
	return &MaintenanceUseCase{repo: repo}
}

// PurgeAll deletes every record of every kind. Progress is written to
// w as each kind finishes.
func (uc *MaintenanceUseCase) PurgeAll(ctx context.Context, w io.Writer) (*PurgeResult, error) {
	return uc.purge(ctx, w, func(string) bool { return true })
}

// PurgeDemo deletes records whose title or name carries the demo
// marker. Child records (executions, deficiencies, evidence, alerts)
// are removed when their parent control is demo data.
func (uc *MaintenanceUseCase) PurgeDemo(ctx context.Context, w io.Writer) (*PurgeResult, error) {
	return uc.purge(ctx, w, func(name string) bool {
		return strings.HasPrefix(name, demoMarker)
	})
}

func (uc *MaintenanceUseCase) purge(ctx context.Context, w io.Writer, match func(name string) bool) (*PurgeResult, error) {
	result := &PurgeResult{}

	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}

	demoControls := make(map[int64]bool)
	for _, c := range controls {
		if match(c.Name) {
			demoControls[c.ID] = true
		}
	}

	// Children first so re-runs after a partial failure never orphan
	// records against a deleted control.
	execs, err := uc.repo.TestExecution().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list test executions")
	}
	for _, e := range execs {
		if !demoControls[e.ControlID] {
			continue
		}
		if err := uc.repo.TestExecution().Delete(ctx, e.ID); err != nil {
			logging.From(ctx).Warn("failed to delete test execution", "id", e.ID, "error", err)
			continue
		}
		result.TestExecutions++
	}
	safe.Fprintf(ctx, w, "deleted %d test executions\n", result.TestExecutions)

	defs, err := uc.repo.Deficiency().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list deficiencies")
	}
	for _, d := range defs {
		if !demoControls[d.ControlID] {
			continue
		}
		if err := uc.repo.Deficiency().Delete(ctx, d.ID); err != nil {
			logging.From(ctx).Warn("failed to delete deficiency", "id", d.ID, "error", err)
			continue
		}
		result.Deficiencies++
	}
	safe.Fprintf(ctx, w, "deleted %d deficiencies\n", result.Deficiencies)

	evidence, err := uc.repo.Evidence().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list evidence")
	}
	for _, ev := range evidence {
		if !demoControls[ev.ControlID] {
			continue
		}
		if err := uc.repo.Evidence().Delete(ctx, ev.ID); err != nil {
			logging.From(ctx).Warn("failed to delete evidence", "id", ev.ID, "error", err)
			continue
		}
		result.Evidence++
	}
	safe.Fprintf(ctx, w, "deleted %d evidence records\n", result.Evidence)

	alerts, err := uc.repo.Alert().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts")
	}
	for _, a := range alerts {
		if !(demoControls[a.RelatedID] || match(a.Title)) {
			continue
		}
		if err := uc.repo.Alert().Delete(ctx, a.ID); err != nil {
			logging.From(ctx).Warn("failed to delete alert", "id", a.ID, "error", err)
			continue
		}
		result.Alerts++
	}
	safe.Fprintf(ctx, w, "deleted %d alerts\n", result.Alerts)

	for id := range demoControls {
		if err := uc.repo.Control().Delete(ctx, id); err != nil {
			logging.From(ctx).Warn("failed to delete control", "id", id, "error", err)
			continue
		}
		result.Controls++
	}
	safe.Fprintf(ctx, w, "deleted %d controls\n", result.Controls)

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	for _, r := range risks {
		if !match(r.Title) {
			continue
		}
		if err := uc.repo.Risk().Delete(ctx, r.ID); err != nil {
			logging.From(ctx).Warn("failed to delete risk", "id", r.ID, "error", err)
			continue
		}
		result.Risks++
	}
	safe.Fprintf(ctx, w, "deleted %d risks\n", result.Risks)

	rules, err := uc.repo.CaptureRule().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list capture rules")
	}
	for _, rule := range rules {
		if !match(rule.Name) {
			continue
		}
		if err := uc.repo.CaptureRule().Delete(ctx, rule.ID); err != nil {
			logging.From(ctx).Warn("failed to delete capture rule", "id", rule.ID, "error", err)
			continue
		}
		result.CaptureRules++
	}
	safe.Fprintf(ctx, w, "deleted %d capture rules\n", result.CaptureRules)

	updates, err := uc.repo.RegulatoryUpdate().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list regulatory updates")
	}

	demoUpdates := make(map[int64]bool)
	for _, u := range updates {
		if match(u.Title) {
			demoUpdates[u.ID] = true
		}
	}

	changes, err := uc.repo.RegulatoryChange().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list regulatory changes")
	}

	demoChanges := make(map[int64]bool)
	for _, c := range changes {
		if demoUpdates[c.RegulatoryUpdateID] {
			demoChanges[c.ID] = true
		}
	}

	assessments, err := uc.repo.RegulatoryAssessment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list regulatory assessments")
	}
	for _, a := range assessments {
		if !demoChanges[a.RegulatoryChangeID] {
			continue
		}
		if err := uc.repo.RegulatoryAssessment().Delete(ctx, a.ID); err != nil {
			logging.From(ctx).Warn("failed to delete regulatory assessment", "id", a.ID, "error", err)
			continue
		}
		result.RegulatoryAssessments++
	}
	safe.Fprintf(ctx, w, "deleted %d regulatory assessments\n", result.RegulatoryAssessments)

	for id := range demoChanges {
		if err := uc.repo.RegulatoryChange().Delete(ctx, id); err != nil {
			logging.From(ctx).Warn("failed to delete regulatory change", "id", id, "error", err)
			continue
		}
		result.RegulatoryChanges++
	}
	safe.Fprintf(ctx, w, "deleted %d regulatory changes\n", result.RegulatoryChanges)

	for id := range demoUpdates {
		if err := uc.repo.RegulatoryUpdate().Delete(ctx, id); err != nil {
			logging.From(ctx).Warn("failed to delete regulatory update", "id", id, "error", err)
			continue
		}
		result.RegulatoryUpdates++
	}
	safe.Fprintf(ctx, w, "deleted %d regulatory updates\n", result.RegulatoryUpdates)

	logs, err := uc.repo.QueryLog().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list query logs")
	}
	for _, l := range logs {
		if !match(l.Question) {
			continue
		}
		if err := uc.repo.QueryLog().Delete(ctx, l.ID); err != nil {
			logging.From(ctx).Warn("failed to delete query log", "id", l.ID, "error", err)
			continue
		}
		result.QueryLogs++
	}
	safe.Fprintf(ctx, w, "deleted %d query logs\n", result.QueryLogs)

	return result, nil
}
