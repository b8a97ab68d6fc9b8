package domain

import "github.com/google/uuid"

// BacktestResult is everything one run produces. Days starts with the
// opening state at the start date.
type BacktestResult struct {
	Params      Params
	Days        []PortfolioState
	Rebalances  []RebalanceRecord
	Summary     PerformanceSummary
	Diagnostics Diagnostics
}

type SweepEntry struct {
	Label       string              `json:"label"`
	Params      Params              `json:"-"`
	Summary     *PerformanceSummary `json:"summary,omitempty"`
	Diagnostics *Diagnostics        `json:"diagnostics,omitempty"`
	Err         string              `json:"error,omitempty"`
}

type SweepResult struct {
	RunID   uuid.UUID    `json:"runId"`
	Entries []SweepEntry `json:"entries"`
}
