package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// TestExecution is an append-style record of one test event against a
// control activity. Finalizing it (submit) pushes the result onto the
// control and may raise a deficiency.
type TestExecution struct {
	ID        int64
	ControlID int64

	TestDate   time.Time
	Tester     string
	TestResult types.TestResult
	Procedure  string
	Conclusion string
	SampleSize int

	Status types.ExecutionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the execution's local field relationships.
func (t *TestExecution) Validate() error {
	if t.ControlID == 0 {
		return goerr.New("test execution must reference a control")
	}
	if t.TestResult != "" && !t.TestResult.IsValid() {
		return goerr.New("invalid test result", goerr.V("result", t.TestResult))
	}
	if t.TestResult.IsIneffective() && t.Conclusion == "" {
		return goerr.New("conclusion is required when test result is ineffective",
			goerr.V("result", t.TestResult))
	}
	return nil
}

// IsSubmitted reports whether the execution has been finalized.
func (t *TestExecution) IsSubmitted() bool {
	return t.Status == types.ExecutionStatusSubmitted
}
