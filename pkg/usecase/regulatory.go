package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// defaultMinConfidence is the match confidence below which no impact
// assessment is created.
const defaultMinConfidence = 50.0

// RegulatoryUseCase tracks regulatory updates, the changes detected in
// them, and the mapping of those changes onto the control register.
type RegulatoryUseCase struct {
	repo  interfaces.Repository
	hooks *hook.Registry
	now   func() time.Time
}

func NewRegulatoryUseCase(repo interfaces.Repository, hooks *hook.Registry, now func() time.Time) *RegulatoryUseCase {
	return &RegulatoryUseCase{
		repo:  repo,
		hooks: hooks,
		now:   now,
	}
}

func (uc *RegulatoryUseCase) CreateUpdate(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindRegulatoryUpdate, types.EventValidate, update); err != nil {
		return nil, err
	}
	return uc.repo.RegulatoryUpdate().Create(ctx, update)
}

func (uc *RegulatoryUseCase) GetUpdate(ctx context.Context, id int64) (*model.RegulatoryUpdate, error) {
	return uc.repo.RegulatoryUpdate().Get(ctx, id)
}

func (uc *RegulatoryUseCase) ListUpdates(ctx context.Context) ([]*model.RegulatoryUpdate, error) {
	return uc.repo.RegulatoryUpdate().List(ctx)
}

// CreateChange records a change detected in a regulatory update. When
// both text versions are present the change is analyzed on the way in.
func (uc *RegulatoryUseCase) CreateChange(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error) {
	if change.RegulatoryUpdateID != 0 {
		if _, err := uc.repo.RegulatoryUpdate().Get(ctx, change.RegulatoryUpdateID); err != nil {
			return nil, goerr.Wrap(err, "regulatory update does not exist",
				goerr.V("regulatory_update_id", change.RegulatoryUpdateID))
		}
	}

	change.Analyze()
	if err := uc.hooks.Dispatch(ctx, types.DocKindRegulatoryChange, types.EventValidate, change); err != nil {
		return nil, err
	}
	return uc.repo.RegulatoryChange().Create(ctx, change)
}

func (uc *RegulatoryUseCase) GetChange(ctx context.Context, id int64) (*model.RegulatoryChange, error) {
	return uc.repo.RegulatoryChange().Get(ctx, id)
}

func (uc *RegulatoryUseCase) ListChanges(ctx context.Context) ([]*model.RegulatoryChange, error) {
	return uc.repo.RegulatoryChange().List(ctx)
}

// ControlMatch is one control potentially affected by a regulatory
// change.
type ControlMatch struct {
	Control    *model.Control
	Confidence float64
	// Method is "citation" when the control text carries the
	// update's citation, "keyword" for term overlap.
	Method    string
	MatchedOn string
}

// AssessImpact maps a regulatory change onto the control register and
// creates one impact assessment per affected control above the
// confidence floor. Re-running skips controls already assessed for the
// change. Returns the assessments created by this run.
func (uc *RegulatoryUseCase) AssessImpact(ctx context.Context, changeID int64, minConfidence float64) ([]*model.RegulatoryAssessment, error) {
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}

	change, err := uc.repo.RegulatoryChange().Get(ctx, changeID)
	if err != nil {
		return nil, err
	}

	var update *model.RegulatoryUpdate
	if change.RegulatoryUpdateID != 0 {
		update, err = uc.repo.RegulatoryUpdate().Get(ctx, change.RegulatoryUpdateID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load regulatory update for change",
				goerr.V("change_id", changeID))
		}
	}

	matches, err := uc.findAffectedControls(ctx, change, update)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.RegulatoryAssessment().ListByChange(ctx, changeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list existing assessments",
			goerr.V("change_id", changeID))
	}
	assessed := make(map[int64]bool, len(existing))
	for _, a := range existing {
		assessed[a.ControlID] = true
	}

	var created []*model.RegulatoryAssessment
	for _, match := range matches {
		if match.Confidence < minConfidence || assessed[match.Control.ID] {
			continue
		}

		impactType := impactTypeFor(change.Severity, match.Confidence)
		assessment := &model.RegulatoryAssessment{
			RegulatoryChangeID: change.ID,
			RegulatoryUpdateID: change.RegulatoryUpdateID,
			ControlID:          match.Control.ID,
			ConfidenceScore:    match.Confidence,
			MatchedKeywords:    match.MatchedOn,
			ImpactType:         impactType,
			Priority:           types.PriorityForSeverity(change.Severity),
			GapIdentified:      impactType == types.ImpactTypeNewControlNeeded,
			Status:             types.AssessmentStatusPending,
		}
		if err := uc.hooks.Dispatch(ctx, types.DocKindRegulatoryAssessment, types.EventValidate, assessment); err != nil {
			return nil, err
		}

		stored, err := uc.repo.RegulatoryAssessment().Create(ctx, assessment)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create impact assessment",
				goerr.V("change_id", change.ID),
				goerr.V("control_id", match.Control.ID))
		}
		created = append(created, stored)
	}

	if len(created) > 0 && change.Status != types.ChangeStatusImpactAssessed {
		change.Status = types.ChangeStatusImpactAssessed
		if _, err := uc.repo.RegulatoryChange().Update(ctx, change); err != nil {
			return nil, goerr.Wrap(err, "failed to mark change as impact assessed",
				goerr.V("change_id", change.ID))
		}
	}

	logging.From(ctx).Info("impact assessment finished",
		"change_id", changeID,
		"matched", len(matches),
		"created", len(created))
	return created, nil
}

// findAffectedControls matches a change against every non-retired
// control. Citation hits outrank keyword overlap; one match per
// control, highest confidence wins.
func (uc *RegulatoryUseCase) findAffectedControls(ctx context.Context, change *model.RegulatoryChange, update *model.RegulatoryUpdate) ([]*ControlMatch, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}

	changeKeywords := keywordSet(change.MatchText())
	if update != nil {
		for _, kw := range update.Keywords {
			changeKeywords[strings.ToLower(kw)] = true
		}
	}

	citation := ""
	if update != nil {
		citation = strings.ToUpper(strings.TrimSpace(update.Reference))
	}

	best := make(map[int64]*ControlMatch)
	for _, control := range controls {
		if control.Status == types.ControlStatusRetired {
			continue
		}
		controlText := control.Name + " " + control.Description + " " + control.Category

		if citation != "" && strings.Contains(strings.ToUpper(controlText), citation) {
			best[control.ID] = &ControlMatch{
				Control:    control,
				Confidence: 90,
				Method:     "citation",
				MatchedOn:  update.Reference,
			}
			continue
		}

		controlKeywords := keywordSet(controlText)
		similarity, matched := keywordOverlap(changeKeywords, controlKeywords)
		if similarity <= 0.05 {
			continue
		}
		confidence := similarity * 100 * 2
		if confidence > 80 {
			confidence = 80
		}
		best[control.ID] = &ControlMatch{
			Control:    control,
			Confidence: confidence,
			Method:     "keyword",
			MatchedOn:  strings.Join(matched, ", "),
		}
	}

	matches := make([]*ControlMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Control.ID < matches[j].Control.ID
	})
	return matches, nil
}

// impactTypeFor grades the impact on a matched control. A confident
// match against a critical change likely means the register lacks a
// covering control.
func impactTypeFor(severity types.ChangeSeverity, confidence float64) types.ImpactType {
	if confidence >= 80 && severity == types.ChangeSeverityCritical {
		return types.ImpactTypeNewControlNeeded
	}
	if severity == types.ChangeSeverityCritical || severity == types.ChangeSeverityMajor {
		return types.ImpactTypeModifyExisting
	}
	return types.ImpactTypeReviewRequired
}

func (uc *RegulatoryUseCase) GetAssessment(ctx context.Context, id int64) (*model.RegulatoryAssessment, error) {
	return uc.repo.RegulatoryAssessment().Get(ctx, id)
}

func (uc *RegulatoryUseCase) ListAssessments(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	return uc.repo.RegulatoryAssessment().List(ctx)
}

func (uc *RegulatoryUseCase) ListPendingAssessments(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	return uc.repo.RegulatoryAssessment().ListPending(ctx)
}

// CompleteAssessment closes an assessment after the control was
// brought in line with the change.
func (uc *RegulatoryUseCase) CompleteAssessment(ctx context.Context, id int64, actionTaken, notes string) (*model.RegulatoryAssessment, error) {
	if actionTaken == "" {
		return nil, goerr.New("action taken is required to complete an assessment",
			goerr.V("id", id))
	}

	assessment, err := uc.repo.RegulatoryAssessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment.Status = types.AssessmentStatusControlUpdated
	assessment.ActionTaken = actionTaken
	assessment.CompletionNotes = notes
	assessment.CompletedDate = uc.now().UTC()

	return uc.repo.RegulatoryAssessment().Update(ctx, assessment)
}

// DismissAssessment records that the change needs no action on the
// control. The reason is mandatory.
func (uc *RegulatoryUseCase) DismissAssessment(ctx context.Context, id int64, reason string) (*model.RegulatoryAssessment, error) {
	if reason == "" {
		return nil, goerr.New("a reason is required to dismiss an assessment",
			goerr.V("id", id))
	}

	assessment, err := uc.repo.RegulatoryAssessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment.Status = types.AssessmentStatusNoActionNeeded
	assessment.CompletionNotes = reason
	assessment.CompletedDate = uc.now().UTC()

	return uc.repo.RegulatoryAssessment().Update(ctx, assessment)
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"as": true, "is": true, "was": true, "are": true, "be": true,
}

// keywordSet tokenizes text into lowercased keywords with stop words
// removed.
func keywordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if w == "" || stopWords[w] {
			continue
		}
		set[w] = true
	}
	return set
}

// keywordOverlap returns the Jaccard similarity of two keyword sets and
// up to five shared keywords.
func keywordOverlap(a, b map[string]bool) (float64, []string) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}

	var matched []string
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
			if len(matched) < 5 {
				matched = append(matched, w)
			}
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0, nil
	}
	sort.Strings(matched)
	return float64(intersection) / float64(union), matched
}
