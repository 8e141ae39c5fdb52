package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/repository/memory"
	"github.com/grc-lab/attest/pkg/usecase"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func llmRespondingWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func TestAssistantQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("question is required", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Assistant.Query(ctx, "  ")
		gt.Error(t, err)
	})

	t.Run("lists controls by intent", func(t *testing.T) {
		uc := newUseCases(t)
		for _, name := range []string{"access review", "change approval"} {
			_, err := uc.Control.Create(ctx, &model.Control{
				Name:   name,
				Status: types.ControlStatusActive,
			})
			gt.NoError(t, err).Required()
		}

		answer, err := uc.Assistant.Query(ctx, "show me all controls")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Kind).Equal(types.DocKindControl)
		gt.Value(t, answer.Count).Equal(2)
		gt.Array(t, answer.Records).Length(2)
		gt.Bool(t, answer.LLMUsed).False()
		gt.Array(t, answer.Intents).Has("list_controls")
	})

	t.Run("count question returns no records", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "access review",
			Status: types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "how many controls are there")
		gt.NoError(t, err).Required()
		gt.Bool(t, answer.CountOnly).True()
		gt.Value(t, answer.Count).Equal(1)
		gt.Array(t, answer.Records).Length(0)
	})

	t.Run("status entity filters records", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "active one",
			Status: types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()
		_, err = uc.Control.Create(ctx, &model.Control{
			Name:   "drafted one",
			Status: types.ControlStatusDraft,
		})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "list controls with active status")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Count).Equal(1)
		gt.Value(t, answer.Records[0].Label).Equal("active one")
	})

	t.Run("failed tests map to ineffective executions", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)

		_, err := uc.TestExecution.Create(ctx, &model.TestExecution{
			ControlID:  control.ID,
			TestDate:   fixedNow.AddDate(0, 0, -1),
			TestResult: types.TestResultEffective,
		})
		gt.NoError(t, err).Required()
		failed, err := uc.TestExecution.Create(ctx, &model.TestExecution{
			ControlID:  control.ID,
			TestDate:   fixedNow.AddDate(0, 0, -2),
			TestResult: types.TestResultIneffectiveMinor,
			Conclusion: "sampling found unapproved changes",
		})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "show me all tests that failed")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Kind).Equal(types.DocKindTestExecution)
		gt.Value(t, answer.Count).Equal(1)
		gt.Value(t, answer.Records[0].ID).Equal(failed.ID)
	})

	t.Run("overdue controls", func(t *testing.T) {
		uc := newUseCases(t)
		overdue := createOverdueControl(t, uc, "late control", 10)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "current control",
			Status: types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "which controls are overdue")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Count).Equal(1)
		gt.Value(t, answer.Records[0].ID).Equal(overdue.ID)
	})

	t.Run("high risk filter needs thresholds", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Assistant.Query(ctx, "which risks are high risk")
		gt.Error(t, err)
	})

	t.Run("every query is logged", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithNow(func() time.Time { return fixedNow }))

		_, err := uc.Assistant.Query(ctx, "show me all controls")
		gt.NoError(t, err).Required()

		logs, err := repo.QueryLog().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(1)
		gt.Value(t, logs[0].Question).Equal("show me all controls")
		gt.Bool(t, logs[0].LLMUsed).False()
	})
}

func TestAssistantQueryWithLLM(t *testing.T) {
	ctx := context.Background()

	newWithLLM := func(t *testing.T, llm gollem.LLMClient) *usecase.UseCases {
		t.Helper()
		return usecase.New(memory.New(),
			usecase.WithNow(func() time.Time { return fixedNow }),
			usecase.WithLLM(llm))
	}

	t.Run("LLM plan drives the query", func(t *testing.T) {
		uc := newWithLLM(t, llmRespondingWith(`{"kind":"risk","count_only":true}`))
		_, err := uc.Risk.Create(ctx, &model.Risk{Title: "vendor outage"})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "risk count please")
		gt.NoError(t, err).Required()
		gt.Bool(t, answer.LLMUsed).True()
		gt.Value(t, answer.Kind).Equal(types.DocKindRisk)
		gt.Bool(t, answer.CountOnly).True()
		gt.Value(t, answer.Count).Equal(1)
	})

	t.Run("invalid LLM JSON falls back to the rule-based parser", func(t *testing.T) {
		uc := newWithLLM(t, llmRespondingWith("not a json object"))
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "access review",
			Status: types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()

		answer, err := uc.Assistant.Query(ctx, "show me all controls")
		gt.NoError(t, err).Required()
		gt.Bool(t, answer.LLMUsed).False()
		gt.Value(t, answer.Kind).Equal(types.DocKindControl)
		gt.Value(t, answer.Count).Equal(1)
	})

	t.Run("unknown kind from the LLM falls back", func(t *testing.T) {
		uc := newWithLLM(t, llmRespondingWith(`{"kind":"evidence"}`))
		answer, err := uc.Assistant.Query(ctx, "show me all controls")
		gt.NoError(t, err).Required()
		gt.Bool(t, answer.LLMUsed).False()
		gt.Value(t, answer.Kind).Equal(types.DocKindControl)
	})
}

func TestAssistantSuggestTestingPriority(t *testing.T) {
	ctx := context.Background()

	setLastTest := func(t *testing.T, uc *usecase.UseCases, control *model.Control, daysAgo int) {
		t.Helper()
		control.LastTestDate = fixedNow.AddDate(0, 0, -daysAgo)
		_, err := uc.Control.Update(ctx, control)
		gt.NoError(t, err).Required()
	}

	t.Run("ranks never-tested and overdue controls", func(t *testing.T) {
		uc := newUseCases(t)

		neverTested, err := uc.Control.Create(ctx, &model.Control{
			Name:         "never tested key control",
			Status:       types.ControlStatusActive,
			IsKeyControl: true,
		})
		gt.NoError(t, err).Required()

		overdue, err := uc.Control.Create(ctx, &model.Control{
			Name:          "long overdue control",
			Status:        types.ControlStatusActive,
			TestFrequency: types.TestFrequencyQuarterly,
		})
		gt.NoError(t, err).Required()
		setLastTest(t, uc, overdue, 200)

		fresh, err := uc.Control.Create(ctx, &model.Control{
			Name:          "recently tested control",
			Status:        types.ControlStatusActive,
			TestFrequency: types.TestFrequencyQuarterly,
		})
		gt.NoError(t, err).Required()
		setLastTest(t, uc, fresh, 10)

		suggestions, err := uc.Assistant.SuggestTestingPriority(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, suggestions).Length(2)

		gt.Value(t, suggestions[0].ControlID).Equal(neverTested.ID)
		gt.Array(t, suggestions[0].Reasons).Has("never tested")
		gt.Array(t, suggestions[0].Reasons).Has("key control")

		gt.Value(t, suggestions[1].ControlID).Equal(overdue.ID)
		gt.Array(t, suggestions[1].Reasons).Has("overdue by 110 days")
	})

	t.Run("recent deficiencies push a control over the bar", func(t *testing.T) {
		uc := newUseCases(t)

		dueSoon, err := uc.Control.Create(ctx, &model.Control{
			Name:          "due soon with findings",
			Status:        types.ControlStatusActive,
			TestFrequency: types.TestFrequencyQuarterly,
		})
		gt.NoError(t, err).Required()
		setLastTest(t, uc, dueSoon, 80)

		_, err = uc.Deficiency.Create(ctx, &model.Deficiency{
			ControlID:      dueSoon.ID,
			Description:    "sample approvals missing",
			IdentifiedDate: fixedNow.AddDate(0, 0, -30),
		})
		gt.NoError(t, err).Required()

		suggestions, err := uc.Assistant.SuggestTestingPriority(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, suggestions).Length(1)
		gt.Array(t, suggestions[0].Reasons).Has("testing due soon")
		gt.Array(t, suggestions[0].Reasons).Has("1 recent deficiencies")
	})

	t.Run("inactive controls are ignored", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:         "drafted control",
			Status:       types.ControlStatusDraft,
			IsKeyControl: true,
		})
		gt.NoError(t, err).Required()

		suggestions, err := uc.Assistant.SuggestTestingPriority(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, suggestions).Length(0)
	})
}

func TestAssistantSuggestControlsForRisk(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks controls by shared terminology and category", func(t *testing.T) {
		uc := newUseCases(t)

		risk, err := uc.Risk.Create(ctx, &model.Risk{
			Title:       "Data breach of customer records",
			Category:    "Security",
			Description: "Loss of customer records through compromised systems",
		})
		gt.NoError(t, err).Required()

		relevant, err := uc.Control.Create(ctx, &model.Control{
			Name:         "Customer data encryption",
			Description:  "Encrypt customer records in storage",
			Category:     "Security",
			Status:       types.ControlStatusActive,
			IsKeyControl: true,
		})
		gt.NoError(t, err).Required()
		_, err = uc.Control.Create(ctx, &model.Control{
			Name:        "Expense approval workflow",
			Description: "Manager approval of travel expenses",
			Category:    "Finance",
			Status:      types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()

		suggestions, err := uc.Assistant.SuggestControlsForRisk(ctx, risk.ID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, suggestions).Length(1)
		gt.Value(t, suggestions[0].ControlID).Equal(relevant.ID)
		gt.Bool(t, suggestions[0].RelevanceScore > 0.3).True()
		gt.Value(t, suggestions[0].Reasoning).NotEqual("")
	})

	t.Run("unknown risk fails", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Assistant.SuggestControlsForRisk(ctx, 404, 0)
		gt.Error(t, err)
	})
}
