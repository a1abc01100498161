package domain

// TaskType is the coarse category of an instruction prompt, used to pick
// strategies that match the shape of the task rather than the input.
type TaskType string

const (
	TaskStructuredExtraction TaskType = "structured_extraction"
	TaskOpenReasoning        TaskType = "open_reasoning"
	TaskAnalyticalReasoning  TaskType = "analytical_reasoning"
	TaskCreativeGeneration   TaskType = "creative_generation"
	TaskFactualQA            TaskType = "factual_qa"
	TaskProblemSolving       TaskType = "problem_solving"
)

// TaskCharacteristics are the clamped indicator densities measured on an
// instruction prompt.
type TaskCharacteristics struct {
	FixedFormat         float64 `json:"fixed_format"`
	ExtractionFocus     float64 `json:"extraction_focus"`
	ReasoningComplexity float64 `json:"reasoning_complexity"`
	CreativityRequired  float64 `json:"creativity_required"`
	OpenEndedNature     float64 `json:"open_ended_nature"`
	StructuredOutput    float64 `json:"structured_output"`
}

// TaskRecommendation is the classifier verdict for an instruction prompt.
type TaskRecommendation struct {
	TaskType        TaskType            `json:"task_type"`
	Confidence      float64             `json:"confidence"`
	Explanation     string              `json:"explanation"`
	Strategies      []Strategy          `json:"strategies"`
	PrimaryStrategy Strategy            `json:"primary_strategy"`
	Characteristics TaskCharacteristics `json:"characteristics"`
}
