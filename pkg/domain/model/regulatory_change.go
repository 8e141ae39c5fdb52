package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// RegulatoryChange is one specific change detected between versions of
// regulatory text. Analysis fills the similarity and obligation fields;
// severity is then auto-escalated from them.
type RegulatoryChange struct {
	ID                 int64
	RegulatoryUpdateID int64

	Summary string
	OldText string
	NewText string

	Severity types.ChangeSeverity
	// TextSimilarity is the token overlap of old and new text as a
	// percentage. 100 means unchanged wording.
	TextSimilarity    float64
	ObligationChanged bool

	Status types.ChangeStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required fields and escalates severity from the
// analysis results. A strengthened obligation upgrades Minor and
// Moderate changes to Major; near-total rewording is Critical.
func (c *RegulatoryChange) Validate() error {
	if c.Summary == "" && c.NewText == "" {
		return goerr.New("a regulatory change needs a summary or new text")
	}
	if c.Severity == "" {
		c.Severity = types.ChangeSeverityMinor
	}
	if !c.Severity.IsValid() {
		return goerr.New("invalid change severity", goerr.V("severity", c.Severity))
	}

	if c.ObligationChanged {
		if c.Severity == types.ChangeSeverityMinor || c.Severity == types.ChangeSeverityModerate {
			c.Severity = types.ChangeSeverityMajor
		}
	}
	if c.analyzed() && c.TextSimilarity < 50 {
		c.Severity = types.ChangeSeverityCritical
	}

	return nil
}

func (c *RegulatoryChange) analyzed() bool {
	return c.OldText != "" && c.NewText != ""
}

// Analyze computes the text similarity between old and new text and
// detects whether optional language turned mandatory. Without both
// texts the change is left unanalyzed.
func (c *RegulatoryChange) Analyze() {
	if !c.analyzed() {
		return
	}

	c.TextSimilarity = tokenSimilarity(c.OldText, c.NewText) * 100
	c.ObligationChanged = detectObligationChange(c.OldText, c.NewText)
	c.Status = types.ChangeStatusAnalyzed
}

// MatchText returns the text used for matching this change against the
// control register.
func (c *RegulatoryChange) MatchText() string {
	return strings.TrimSpace(c.Summary + " " + c.NewText)
}

var obligationOptionalWords = []string{"may", "should", "can", "might", "could"}
var obligationMandatoryWords = []string{"must", "shall", "required", "mandatory", "will"}

// detectObligationChange reports whether optional language in the old
// text became mandatory in the new text.
func detectObligationChange(oldText, newText string) bool {
	oldWords := tokenSet(oldText)
	newWords := tokenSet(newText)

	oldHasOptional := false
	for _, w := range obligationOptionalWords {
		if oldWords[w] {
			oldHasOptional = true
			break
		}
	}
	if !oldHasOptional {
		return false
	}

	for _, w := range obligationMandatoryWords {
		if newWords[w] && !oldWords[w] {
			return true
		}
	}
	return false
}

// tokenSimilarity is the Jaccard similarity of the token sets of two
// texts, in [0, 1].
func tokenSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if w != "" {
			set[w] = true
		}
	}
	return set
}
