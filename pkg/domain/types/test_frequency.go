package types

// TestFrequency is how often a control must be tested.
type TestFrequency string

const (
	TestFrequencyMonthly      TestFrequency = "Monthly"
	TestFrequencyQuarterly    TestFrequency = "Quarterly"
	TestFrequencySemiAnnually TestFrequency = "Semi-annually"
	TestFrequencyAnnually     TestFrequency = "Annually"
)

// IsValid checks if the test frequency is valid.
func (f TestFrequency) IsValid() bool {
	return f.Months() > 0
}

// Months returns the interval of the frequency in months, or 0 for an
// unknown or empty frequency.
func (f TestFrequency) Months() int {
	switch f {
	case TestFrequencyMonthly:
		return 1
	case TestFrequencyQuarterly:
		return 3
	case TestFrequencySemiAnnually:
		return 6
	case TestFrequencyAnnually:
		return 12
	default:
		return 0
	}
}

// String returns the string representation of the test frequency.
func (f TestFrequency) String() string {
	return string(f)
}
