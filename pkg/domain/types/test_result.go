package types

import "strings"

// TestResult is the outcome of one control test execution.
type TestResult string

const (
	TestResultEffective              TestResult = "Effective"
	TestResultIneffectiveMinor       TestResult = "Ineffective - Minor"
	TestResultIneffectiveSignificant TestResult = "Ineffective - Significant"
	TestResultIneffectiveMaterial    TestResult = "Ineffective - Material"
	TestResultNotTested              TestResult = "Not Tested"
)

// IsValid checks if the test result is valid.
func (r TestResult) IsValid() bool {
	switch r {
	case TestResultEffective,
		TestResultIneffectiveMinor,
		TestResultIneffectiveSignificant,
		TestResultIneffectiveMaterial,
		TestResultNotTested:
		return true
	default:
		return false
	}
}

// IsIneffective reports whether the result indicates a failed test.
func (r TestResult) IsIneffective() bool {
	return strings.Contains(string(r), "Ineffective")
}

// DeficiencySeverity maps an ineffective result to the severity of the
// deficiency it raises. Any ineffective result outside the fixed table
// falls back to a plain control deficiency.
func (r TestResult) DeficiencySeverity() DeficiencySeverity {
	switch r {
	case TestResultIneffectiveMinor:
		return SeverityControlDeficiency
	case TestResultIneffectiveSignificant:
		return SeveritySignificantDeficiency
	case TestResultIneffectiveMaterial:
		return SeverityMaterialWeakness
	default:
		return SeverityControlDeficiency
	}
}

// String returns the string representation of the test result.
func (r TestResult) String() string {
	return string(r)
}
