package model

import "time"

// QueryLog records one natural language query against the register,
// kept for tuning the intent patterns and reviewing answer quality.
type QueryLog struct {
	ID       int64
	Question string
	Intents  []string
	Kind     string
	Answer   string
	Count    int
	// LLMUsed marks answers produced by the language model rather
	// than the rule-based parser.
	LLMUsed    bool
	DurationMS int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
