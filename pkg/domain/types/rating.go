package types

import (
	"strconv"
	"strings"
)

// Rating is a likelihood or impact rating as entered on a risk entry.
// Two formats are accepted: a labelled value such as "3 - High" and a
// bare integer such as "3".
type Rating string

// Score extracts the numeric score from the rating. A labelled value is
// split on " - " and the leading part is parsed; a bare value is parsed
// directly. Empty or unparseable input yields 0 rather than an error so
// that a malformed rating never blocks a save.
func (r Rating) Score() int {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, " - "); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IsZero reports whether the rating is absent.
func (r Rating) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}

// String returns the string representation of the rating.
func (r Rating) String() string {
	return string(r)
}
