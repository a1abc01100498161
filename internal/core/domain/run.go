package domain

import "time"

type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ExperimentRun is one evaluation of a prompt strategy (or the adaptive
// selector) over a dataset of review sentences.
type ExperimentRun struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Mode        RunMode   `json:"mode"`
	Dataset     string    `json:"dataset"`
	Status      RunStatus `json:"status"`
	TotalScore  int       `json:"total_score"`
	MaxScore    int       `json:"max_score"`
	SuccessRate float64   `json:"success_rate"`
	TotalTokens int       `json:"total_tokens"`
	TokensSaved int       `json:"tokens_saved"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CaseResult is the outcome of a single sentence within a run.
type CaseResult struct {
	RunID           string      `json:"run_id"`
	CaseIndex       int         `json:"case_index"`
	Input           string      `json:"input"`
	Strategy        Strategy    `json:"strategy"`
	Output          string      `json:"output"`
	Extraction      *Extraction `json:"extraction,omitempty"`
	Score           int         `json:"score"`
	Reason          string      `json:"reason,omitempty"`
	EstimatedTokens int         `json:"estimated_tokens"`
	Prediction      *Prediction `json:"prediction,omitempty"`
}

// RunSummary carries the accumulated totals written back when a run
// finishes.
type RunSummary struct {
	TotalScore  int
	MaxScore    int
	SuccessRate float64
	TotalTokens int
	TokensSaved int
}

// ComparisonRow is one strategy line of a cross-strategy report.
type ComparisonRow struct {
	Label          string           `json:"label"`
	SuccessRate    float64          `json:"success_rate"`
	TotalScore     int              `json:"total_score"`
	MaxScore       int              `json:"max_score"`
	TotalTokens    int              `json:"total_tokens"`
	Efficiency     float64          `json:"efficiency"`
	StrategyCounts map[Strategy]int `json:"strategy_counts,omitempty"`
	Cases          []CaseResult     `json:"cases,omitempty"`
}

// ComparisonReport aggregates every evaluated arm of an experiment.
type ComparisonReport struct {
	GeneratedAt    time.Time       `json:"generated_at"`
	Dataset        string          `json:"dataset"`
	Rows           []ComparisonRow `json:"rows"`
	BestAccuracy   string          `json:"best_accuracy"`
	BestEfficiency string          `json:"best_efficiency"`
	MostEconomical string          `json:"most_economical"`
}

// Efficiency is success rate per thousand prompt tokens.
func Efficiency(successRate float64, totalTokens int) float64 {
	if totalTokens <= 0 {
		return 0
	}
	return successRate / (float64(totalTokens) / 1000.0)
}
