package models

import "time"

// OutcomeKind is the terminal state of one query's cascade.
type OutcomeKind string

const (
	// OutcomeShortcut is a rule hit (small talk, clarification, procedure);
	// no retrieval ran and no log record is written.
	OutcomeShortcut OutcomeKind = "SHORTCUT"
	// OutcomeDirect is a confident single-tier answer.
	OutcomeDirect OutcomeKind = "DIRECT"
	// OutcomeSynthesized is a generated answer grounded in retrieved context.
	OutcomeSynthesized OutcomeKind = "SYNTHESIZED"
	// OutcomeRejected means neither tier produced even weak evidence.
	OutcomeRejected OutcomeKind = "REJECTED"
)

// Outcome is the result of resolving one query through the cascade.
// Text is always a complete user-displayable string.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Text       string      `json:"text"`
	Tier       Tier        `json:"tier,omitempty"`      // set for OutcomeDirect
	Confidence float64     `json:"confidence"`          // top-1 score (direct) or max tier score (synthesized/rejected)
	Contexts   []string    `json:"contexts,omitempty"`  // labeled context blocks fed to the synthesizer
}

// LogStatus values for query log records.
const (
	StatusSuccess   = "SUCCESS"
	StatusGenerated = "GENERATED"
	StatusRejected  = "REJECTED"
)

// QueryLogRecord is one append-only entry per resolved (non-shortcut) query.
type QueryLogRecord struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Tier       string    `json:"tier"` // CURATED, DOCUMENT, SYNTHESIZED, or REJECTED
	Confidence float64   `json:"confidence"`
	Status     string    `json:"status"` // SUCCESS, GENERATED, or REJECTED
	CreatedAt  time.Time `json:"created_at"`
}
