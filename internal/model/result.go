package model

import "time"

// Summary aggregates tier counts across one reconciliation result.
type Summary struct {
	TotalLines         int     `json:"total_lines"`
	PerfectMatches     int     `json:"perfect_matches"`
	PartialMatches     int     `json:"partial_matches"`
	Unmatched          int     `json:"unmatched"`
	OverallScore       float64 `json:"overall_score"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
}

// ReconciliationResult is the full output for one document: the header,
// ordered per-line match candidates, and document-level totals.
type ReconciliationResult struct {
	Header          Header           `json:"header"`
	Lines           []MatchCandidate `json:"lines"`
	CalculatedTotal float64          `json:"calculated_total"`
	Mismatch        bool             `json:"mismatch"`
	Summary         Summary          `json:"summary"`
}

// RunStatus represents the current state of a reconciliation run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusExtracting  RunStatus = "extracting"
	RunStatusReconciling RunStatus = "reconciling"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// Run records a single reconciliation of one document.
type Run struct {
	ID         string                `json:"id"`
	DocumentID string                `json:"document_id"`
	Source     string                `json:"source,omitempty"` // input file path or API caller
	Status     RunStatus             `json:"status"`
	Result     *ReconciliationResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}
