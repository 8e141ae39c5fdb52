package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Control is a long-lived internal control activity. It keeps a rolling
// summary of its most recent test which is pushed in by each submitted
// test execution.
type Control struct {
	ID           int64
	Name         string
	Description  string
	Category     string
	Status       types.ControlStatus
	Owner        string
	IsKeyControl bool

	TestFrequency types.TestFrequency
	CosoComponent string
	CosoPrinciple string

	LastTestDate   time.Time
	LastTestResult types.TestResult
	NextTestDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the control's local field relationships.
func (c *Control) Validate() error {
	if c.Name == "" {
		return goerr.New("control name is required")
	}
	if c.IsKeyControl && c.TestFrequency == "" {
		return goerr.New("key controls must have a test frequency defined",
			goerr.V("control", c.Name))
	}
	if c.TestFrequency != "" && !c.TestFrequency.IsValid() {
		return goerr.New("invalid test frequency",
			goerr.V("frequency", c.TestFrequency))
	}
	return nil
}

// ScheduleNextTest derives the next test date from the frequency and
// the last test date. Without both inputs the schedule is left as-is.
func (c *Control) ScheduleNextTest() {
	months := c.TestFrequency.Months()
	if months == 0 || c.LastTestDate.IsZero() {
		return
	}
	c.NextTestDate = c.LastTestDate.AddDate(0, months, 0)
}

// ApplyTestResult records the outcome of a submitted test execution and
// reschedules the next test.
func (c *Control) ApplyTestResult(testDate time.Time, result types.TestResult) {
	c.LastTestDate = testDate
	c.LastTestResult = result
	c.ScheduleNextTest()
}

// IsOverdue reports whether the control's scheduled test date has
// passed as of the given day.
func (c *Control) IsOverdue(asOf time.Time) bool {
	if c.Status != types.ControlStatusActive || c.NextTestDate.IsZero() {
		return false
	}
	return c.NextTestDate.Before(asOf)
}
