package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// AssistantUseCase answers natural language questions about the
// register and produces ranked suggestions. Without an LLM client it
// falls back to the rule-based intent parser, so the assistant works
// in every deployment.
type AssistantUseCase struct {
	repo     interfaces.Repository
	settings *SettingsUseCase
	llm      gollem.LLMClient
	now      func() time.Time
}

func NewAssistantUseCase(repo interfaces.Repository, settings *SettingsUseCase, llm gollem.LLMClient, now func() time.Time) *AssistantUseCase {
	return &AssistantUseCase{
		repo:     repo,
		settings: settings,
		llm:      llm,
		now:      now,
	}
}

// QueryRecord is one register entry in a query answer.
type QueryRecord struct {
	ID     int64
	Label  string
	Status string
}

// QueryAnswer is the result of one natural language query.
type QueryAnswer struct {
	Question  string
	Intents   []string
	Kind      types.DocKind
	Count     int
	CountOnly bool
	Records   []QueryRecord
	Answer    string
	LLMUsed   bool
}

// queryPlan is the normalized form a question is reduced to before
// execution, whether by the rule-based parser or the LLM.
type queryPlan struct {
	Kind      types.DocKind `json:"kind"`
	Status    string        `json:"status"`
	Failed    bool          `json:"failed"`
	Overdue   bool          `json:"overdue"`
	HighRisk  bool          `json:"high_risk"`
	CountOnly bool          `json:"count_only"`
	Limit     int           `json:"limit"`
}

// Intent patterns for the rule-based parser. Order fixes the kind
// resolution when a question matches several list intents.
var intentOrder = []string{
	"list_controls", "list_risks", "list_deficiencies", "list_tests",
	"count", "failed", "overdue", "high_risk",
}

var intentPatterns = map[string][]*regexp.Regexp{
	"list_controls": {
		regexp.MustCompile(`(show|list|get|find|display)\s+(me\s+)?(all\s+)?controls?`),
		regexp.MustCompile(`what\s+(are\s+)?the\s+controls?`),
		regexp.MustCompile(`which\s+controls?`),
	},
	"list_risks": {
		regexp.MustCompile(`(show|list|get|find|display)\s+(me\s+)?(all\s+)?risks?`),
		regexp.MustCompile(`what\s+(are\s+)?the\s+risks?`),
		regexp.MustCompile(`which\s+risks?`),
	},
	"list_deficiencies": {
		regexp.MustCompile(`(show|list|get|find|display)\s+(me\s+)?(all\s+)?(open\s+)?deficienc(y|ies)`),
		regexp.MustCompile(`what\s+(are\s+)?the\s+(open\s+)?deficienc(y|ies)`),
		regexp.MustCompile(`which\s+deficienc(y|ies)`),
	},
	"list_tests": {
		regexp.MustCompile(`(show|list|get|find|display)\s+(me\s+)?(all\s+)?test(s|ing)?`),
		regexp.MustCompile(`what\s+test(s|ing)?`),
		regexp.MustCompile(`which\s+tests?`),
	},
	"count": {
		regexp.MustCompile(`how\s+many`),
		regexp.MustCompile(`count\s+(of\s+)?`),
		regexp.MustCompile(`total\s+(number\s+)?(of\s+)?`),
	},
	"failed": {
		regexp.MustCompile(`fail(ed|ing|ure)?`),
		regexp.MustCompile(`did\s+not\s+pass`),
		regexp.MustCompile(`ineffective`),
	},
	"overdue": {
		regexp.MustCompile(`overdue`),
		regexp.MustCompile(`behind\s+schedule`),
		regexp.MustCompile(`past\s+due`),
	},
	"high_risk": {
		regexp.MustCompile(`high\s*risk`),
		regexp.MustCompile(`critical`),
		regexp.MustCompile(`high\s+priority`),
	},
}

var statusEntityPattern = regexp.MustCompile(`\b(active|inactive|draft|open|closed)\b`)

var intentKinds = map[string]types.DocKind{
	"list_controls":     types.DocKindControl,
	"list_risks":        types.DocKindRisk,
	"list_deficiencies": types.DocKindDeficiency,
	"list_tests":        types.DocKindTestExecution,
}

// queryKinds are the kinds a query plan may target. An LLM answer
// naming anything else is discarded.
var queryKinds = map[types.DocKind]bool{
	types.DocKindControl:       true,
	types.DocKindRisk:          true,
	types.DocKindDeficiency:    true,
	types.DocKindTestExecution: true,
}

// Query answers a natural language question about the register. The
// LLM plans the query when a client is configured; on any LLM failure
// the rule-based parser answers instead. Every query is logged.
func (uc *AssistantUseCase) Query(ctx context.Context, question string) (*QueryAnswer, error) {
	started := uc.now()
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, goerr.New("question is required")
	}

	intents, plan := parseQuestion(question)

	llmUsed := false
	if uc.llm != nil {
		llmPlan, err := uc.planWithLLM(ctx, question)
		if err != nil {
			logging.From(ctx).Warn("LLM query planning failed, using rule-based parser",
				"question", question, "error", err.Error())
		} else {
			plan = llmPlan
			llmUsed = true
		}
	}

	answer, err := uc.execute(ctx, plan)
	if err != nil {
		return nil, err
	}
	answer.Question = question
	answer.Intents = intents
	answer.LLMUsed = llmUsed

	uc.logQuery(ctx, answer, time.Since(started))
	return answer, nil
}

// parseQuestion reduces a question to its intents and a query plan.
func parseQuestion(question string) ([]string, *queryPlan) {
	lower := strings.ToLower(question)

	var intents []string
	matched := make(map[string]bool)
	for _, intent := range intentOrder {
		for _, p := range intentPatterns[intent] {
			if p.MatchString(lower) {
				intents = append(intents, intent)
				matched[intent] = true
				break
			}
		}
	}

	plan := &queryPlan{Kind: types.DocKindControl}
	for _, intent := range intents {
		if kind, ok := intentKinds[intent]; ok {
			plan.Kind = kind
			break
		}
	}

	plan.CountOnly = matched["count"]
	plan.Failed = matched["failed"]
	plan.Overdue = matched["overdue"]
	plan.HighRisk = matched["high_risk"]
	if m := statusEntityPattern.FindString(lower); m != "" {
		plan.Status = m
	}

	return intents, plan
}

// planWithLLM asks the language model to reduce the question to a
// query plan, constrained by a JSON response schema.
func (uc *AssistantUseCase) planWithLLM(ctx context.Context, question string) (*queryPlan, error) {
	schema := &gollem.Parameter{
		Title:       "QueryPlan",
		Description: "A structured query over the compliance register",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"kind": {
				Type:        gollem.TypeString,
				Description: "Record kind to query: risk, control, test_execution or deficiency",
				Required:    true,
			},
			"status": {
				Type:        gollem.TypeString,
				Description: "Status filter: active, inactive, draft, open or closed. Empty for no filter.",
			},
			"failed": {
				Type:        gollem.TypeBoolean,
				Description: "Only test executions with an ineffective result",
			},
			"overdue": {
				Type:        gollem.TypeBoolean,
				Description: "Only controls whose scheduled test date has passed",
			},
			"high_risk": {
				Type:        gollem.TypeBoolean,
				Description: "Only risks at or above the high risk threshold, or key controls",
			},
			"count_only": {
				Type:        gollem.TypeBoolean,
				Description: "The user asks for a count, not a listing",
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of records to return",
			},
		},
	}

	session, err := uc.llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	prompt := fmt.Sprintf(`Reduce the user's question about a compliance register to a query plan.

Record kinds:
- control: internal control activities (status: Draft, Active, Inactive, Retired)
- risk: risk register entries (status: Open, Mitigated, Accepted, Closed)
- test_execution: control test results (Effective or Ineffective grades)
- deficiency: control weaknesses found by testing (status: Open, In Progress, Closed)

Questions about PAST failures refer to test executions. "Failed" and
"ineffective" mean the same thing. Respond with ONLY valid JSON.

Question: %s`, question)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate query plan")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned an empty query plan")
	}

	var plan queryPlan
	if err := json.Unmarshal([]byte(resp.Texts[0]), &plan); err != nil {
		return nil, goerr.Wrap(err, "failed to parse query plan JSON",
			goerr.V("response", resp.Texts[0]))
	}
	if !queryKinds[plan.Kind] {
		return nil, goerr.New("LLM returned an unknown record kind",
			goerr.V("kind", plan.Kind))
	}

	return &plan, nil
}

func (uc *AssistantUseCase) execute(ctx context.Context, plan *queryPlan) (*QueryAnswer, error) {
	var records []QueryRecord
	var err error

	switch plan.Kind {
	case types.DocKindRisk:
		records, err = uc.queryRisks(ctx, plan)
	case types.DocKindControl:
		records, err = uc.queryControls(ctx, plan)
	case types.DocKindTestExecution:
		records, err = uc.queryExecutions(ctx, plan)
	case types.DocKindDeficiency:
		records, err = uc.queryDeficiencies(ctx, plan)
	default:
		return nil, goerr.New("unsupported query kind", goerr.V("kind", plan.Kind))
	}
	if err != nil {
		return nil, err
	}

	answer := &QueryAnswer{
		Kind:      plan.Kind,
		Count:     len(records),
		CountOnly: plan.CountOnly,
		Answer:    fmt.Sprintf("Found %d %s records", len(records), plan.Kind),
	}
	if !plan.CountOnly {
		limit := plan.Limit
		if limit <= 0 || limit > 50 {
			limit = 50
		}
		if len(records) > limit {
			records = records[:limit]
		}
		answer.Records = records
	}
	return answer, nil
}

func (uc *AssistantUseCase) queryRisks(ctx context.Context, plan *queryPlan) ([]QueryRecord, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, err
	}

	highThreshold := 0
	if plan.HighRisk {
		settings, err := uc.settings.Get(ctx)
		if err != nil {
			return nil, goerr.Wrap(ErrThresholdsNotConfigured, "cannot filter by high risk")
		}
		highThreshold = settings.HighRiskThreshold
	}

	var records []QueryRecord
	for _, r := range risks {
		if plan.Status != "" && !strings.EqualFold(string(r.Status), plan.Status) {
			continue
		}
		if plan.HighRisk && r.ResidualScore < highThreshold {
			continue
		}
		records = append(records, QueryRecord{ID: r.ID, Label: r.Title, Status: string(r.Status)})
	}
	return records, nil
}

func (uc *AssistantUseCase) queryControls(ctx context.Context, plan *queryPlan) ([]QueryRecord, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, err
	}

	asOf := uc.now().UTC()
	var records []QueryRecord
	for _, c := range controls {
		if plan.Status != "" && !strings.EqualFold(string(c.Status), plan.Status) {
			continue
		}
		if plan.Overdue && !c.IsOverdue(asOf) {
			continue
		}
		if plan.HighRisk && !c.IsKeyControl {
			continue
		}
		records = append(records, QueryRecord{ID: c.ID, Label: c.Name, Status: string(c.Status)})
	}
	return records, nil
}

func (uc *AssistantUseCase) queryExecutions(ctx context.Context, plan *queryPlan) ([]QueryRecord, error) {
	execs, err := uc.repo.TestExecution().List(ctx)
	if err != nil {
		return nil, err
	}

	var records []QueryRecord
	for _, e := range execs {
		if plan.Status != "" && !strings.EqualFold(string(e.Status), plan.Status) {
			continue
		}
		if plan.Failed && !e.TestResult.IsIneffective() {
			continue
		}
		label := fmt.Sprintf("Test of control %d on %s", e.ControlID, e.TestDate.Format("2006-01-02"))
		records = append(records, QueryRecord{ID: e.ID, Label: label, Status: string(e.Status)})
	}
	return records, nil
}

func (uc *AssistantUseCase) queryDeficiencies(ctx context.Context, plan *queryPlan) ([]QueryRecord, error) {
	defs, err := uc.repo.Deficiency().List(ctx)
	if err != nil {
		return nil, err
	}

	var records []QueryRecord
	for _, d := range defs {
		if plan.Status != "" {
			if strings.EqualFold(plan.Status, "open") {
				if !d.Status.IsOpen() {
					continue
				}
			} else if !strings.EqualFold(string(d.Status), plan.Status) {
				continue
			}
		}
		records = append(records, QueryRecord{ID: d.ID, Label: d.Description, Status: string(d.Status)})
	}
	return records, nil
}

// logQuery records the query for later review. Logging failure never
// fails the query itself.
func (uc *AssistantUseCase) logQuery(ctx context.Context, answer *QueryAnswer, took time.Duration) {
	log := &model.QueryLog{
		Question:   answer.Question,
		Intents:    answer.Intents,
		Kind:       string(answer.Kind),
		Answer:     answer.Answer,
		Count:      answer.Count,
		LLMUsed:    answer.LLMUsed,
		DurationMS: took.Milliseconds(),
	}
	if _, err := uc.repo.QueryLog().Create(ctx, log); err != nil {
		logging.From(ctx).Warn("failed to log query", "error", err.Error())
	}
}

// TestingSuggestion ranks one control for testing attention.
type TestingSuggestion struct {
	ControlID     int64
	ControlName   string
	PriorityScore float64
	Reasons       []string
	LastTestDate  time.Time
	TestFrequency types.TestFrequency
}

// SuggestTestingPriority ranks active controls by how urgently they
// need testing: never-tested and overdue controls first, weighted up
// for key controls and recent deficiencies.
func (uc *AssistantUseCase) SuggestTestingPriority(ctx context.Context, limit int) ([]*TestingSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}

	controls, err := uc.repo.Control().ListByStatus(ctx, types.ControlStatusActive)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active controls")
	}

	asOf := uc.now().UTC()
	var suggestions []*TestingSuggestion
	for _, control := range controls {
		score := 0.0
		var reasons []string

		expectedDays := float64(control.TestFrequency.Months()) * 30
		if expectedDays == 0 {
			expectedDays = 365
		}

		if control.LastTestDate.IsZero() {
			score += 0.5
			reasons = append(reasons, "never tested")
		} else {
			daysSince := asOf.Sub(control.LastTestDate).Hours() / 24
			if daysSince > expectedDays {
				overdueFactor := daysSince / expectedDays
				if overdueFactor > 2 {
					overdueFactor = 2
				}
				score += (overdueFactor - 1) * 0.4
				reasons = append(reasons, fmt.Sprintf("overdue by %d days", int(daysSince-expectedDays)))
			} else if daysSince > expectedDays*0.8 {
				score += 0.2
				reasons = append(reasons, "testing due soon")
			}
		}

		if control.IsKeyControl {
			score += 0.2
			reasons = append(reasons, "key control")
		}

		defs, err := uc.repo.Deficiency().ListByControl(ctx, control.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list deficiencies",
				goerr.V("control_id", control.ID))
		}
		recent := 0
		for _, d := range defs {
			identified := d.IdentifiedDate
			if identified.IsZero() {
				identified = d.CreatedAt
			}
			if identified.After(asOf.AddDate(0, 0, -90)) {
				recent++
			}
		}
		if recent > 0 {
			bonus := float64(recent) * 0.1
			if bonus > 0.3 {
				bonus = 0.3
			}
			score += bonus
			reasons = append(reasons, fmt.Sprintf("%d recent deficiencies", recent))
		}

		if score > 0.2 {
			suggestions = append(suggestions, &TestingSuggestion{
				ControlID:     control.ID,
				ControlName:   control.Name,
				PriorityScore: score,
				Reasons:       reasons,
				LastTestDate:  control.LastTestDate,
				TestFrequency: control.TestFrequency,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].PriorityScore != suggestions[j].PriorityScore {
			return suggestions[i].PriorityScore > suggestions[j].PriorityScore
		}
		return suggestions[i].ControlID < suggestions[j].ControlID
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// ControlSuggestion ranks one control as a candidate mitigation for a
// risk.
type ControlSuggestion struct {
	ControlID      int64
	ControlName    string
	RelevanceScore float64
	Reasoning      string
}

// SuggestControlsForRisk ranks active controls by relevance to a risk,
// by shared terminology and category.
func (uc *AssistantUseCase) SuggestControlsForRisk(ctx context.Context, riskID int64, limit int) ([]*ControlSuggestion, error) {
	if limit <= 0 {
		limit = 5
	}

	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		return nil, err
	}

	controls, err := uc.repo.Control().ListByStatus(ctx, types.ControlStatusActive)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list active controls")
	}

	riskKeywords := keywordSet(risk.Title + " " + risk.Description)

	var suggestions []*ControlSuggestion
	for _, control := range controls {
		similarity, _ := keywordOverlap(riskKeywords, keywordSet(control.Name+" "+control.Description))

		score := similarity * 0.6
		var reasons []string
		if similarity > 0.15 {
			reasons = append(reasons, "shares terminology with the risk description")
		}
		if risk.Category != "" && risk.Category == control.Category {
			score += 0.3
			reasons = append(reasons, "same category as the risk")
		}
		if control.IsKeyControl {
			score += 0.1
			reasons = append(reasons, "key control")
		}

		if score > 0.2 {
			suggestions = append(suggestions, &ControlSuggestion{
				ControlID:      control.ID,
				ControlName:    control.Name,
				RelevanceScore: score,
				Reasoning:      strings.Join(reasons, "; "),
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].RelevanceScore != suggestions[j].RelevanceScore {
			return suggestions[i].RelevanceScore > suggestions[j].RelevanceScore
		}
		return suggestions[i].ControlID < suggestions[j].ControlID
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}
