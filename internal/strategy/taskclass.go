package strategy

import (
	"fmt"
	"strings"

	"contextlab/internal/core/domain"
)

// TaskClassifier separates structured extraction work from open-ended
// reasoning so the recommended strategy matches the shape of the task,
// not just the complexity of one input.
type TaskClassifier struct {
	outputFormats   []string
	extractionVerbs []string
	schemaFields    []string
	reasoningVerbs  []string
	openQuestions   []string
	creativeVerbs   []string

	strategyMapping map[domain.TaskType][]domain.Strategy
}

func NewTaskClassifier() *TaskClassifier {
	return &TaskClassifier{
		outputFormats: []string{
			"json", "csv", "xml", "yaml", "table", "list",
			"表格", "清單", "格式", "欄位", "鍵值", "key-value",
		},
		extractionVerbs: []string{
			"extract", "parse", "identify", "classify", "categorize",
			"label", "tag", "segment", "detect",
			"提取", "解析", "識別", "分類", "標記", "檢測", "歸類",
		},
		schemaFields: []string{
			"sentiment", "product", "issue", "category", "label",
			"score", "rating", "class", "type", "status",
			"情感", "產品", "問題", "類別", "評分", "狀態",
		},
		reasoningVerbs: []string{
			"explain", "analyze", "discuss", "evaluate", "compare",
			"argue", "justify", "reason", "conclude", "infer",
			"解釋", "分析", "討論", "評估", "比較", "論證", "推理", "推斷",
		},
		openQuestions: []string{
			"why", "how", "what if", "suppose", "consider",
			"explore", "investigate", "think about",
			"為什麼", "如何", "假如", "假設", "考慮", "探討", "思考",
		},
		creativeVerbs: []string{
			"create", "generate", "design", "invent", "imagine",
			"brainstorm", "propose", "suggest",
			"創造", "生成", "設計", "發明", "想像", "建議", "提議",
		},
		strategyMapping: map[domain.TaskType][]domain.Strategy{
			domain.TaskStructuredExtraction: {domain.StrategyRulesBased, domain.StrategyFewShot},
			domain.TaskOpenReasoning:        {domain.StrategyChainOfThought, domain.StrategyReAct},
			domain.TaskAnalyticalReasoning:  {domain.StrategyChainOfThought, domain.StrategyReAct, domain.StrategyFewShot},
			domain.TaskCreativeGeneration:   {domain.StrategyReAct, domain.StrategyChainOfThought},
			domain.TaskFactualQA:            {domain.StrategyRulesBased, domain.StrategyFewShot},
			domain.TaskProblemSolving:       {domain.StrategyReAct, domain.StrategyChainOfThought},
		},
	}
}

// Characteristics measures the clamped indicator densities of an
// instruction prompt.
func (c *TaskClassifier) Characteristics(prompt string) domain.TaskCharacteristics {
	lower := strings.ToLower(prompt)
	return domain.TaskCharacteristics{
		FixedFormat:         clamp01(float64(countLowerPresent(lower, c.outputFormats)) / 3),
		ExtractionFocus:     clamp01(float64(countLowerPresent(lower, c.extractionVerbs)) / 3),
		ReasoningComplexity: clamp01(float64(countLowerPresent(lower, c.reasoningVerbs)) / 3),
		CreativityRequired:  clamp01(float64(countLowerPresent(lower, c.creativeVerbs)) / 2),
		OpenEndedNature:     clamp01(float64(countLowerPresent(lower, c.openQuestions)) / 2),
		StructuredOutput:    clamp01(float64(countLowerPresent(lower, c.schemaFields)) / 2),
	}
}

// Classify scores every task type against the measured characteristics
// and returns the best match with its score.
func (c *TaskClassifier) Classify(prompt string) (domain.TaskType, float64, domain.TaskCharacteristics) {
	ch := c.Characteristics(prompt)

	scores := map[domain.TaskType]float64{
		domain.TaskStructuredExtraction: ch.FixedFormat*0.3 + ch.ExtractionFocus*0.3 + ch.StructuredOutput*0.4,
		domain.TaskOpenReasoning:        ch.ReasoningComplexity*0.4 + ch.OpenEndedNature*0.6,
		domain.TaskAnalyticalReasoning:  ch.ReasoningComplexity*0.5 + ch.StructuredOutput*0.3 + ch.ExtractionFocus*0.2,
		domain.TaskCreativeGeneration:   ch.CreativityRequired*0.6 + ch.OpenEndedNature*0.4,
		domain.TaskFactualQA:            ch.ExtractionFocus*0.4 + (1-ch.ReasoningComplexity)*0.3 + (1-ch.OpenEndedNature)*0.3,
		domain.TaskProblemSolving:       ch.ReasoningComplexity*0.4 + ch.OpenEndedNature*0.3 + ch.CreativityRequired*0.3,
	}

	// Fixed evaluation order keeps argmax deterministic on ties.
	order := []domain.TaskType{
		domain.TaskStructuredExtraction,
		domain.TaskOpenReasoning,
		domain.TaskAnalyticalReasoning,
		domain.TaskCreativeGeneration,
		domain.TaskFactualQA,
		domain.TaskProblemSolving,
	}

	best := order[0]
	for _, t := range order[1:] {
		if scores[t] > scores[best] {
			best = t
		}
	}
	return best, scores[best], ch
}

// Recommend classifies the prompt and maps the task type to its ordered
// strategy candidates.
func (c *TaskClassifier) Recommend(prompt string) domain.TaskRecommendation {
	taskType, confidence, ch := c.Classify(prompt)

	strategies := c.strategyMapping[taskType]
	if len(strategies) == 0 {
		strategies = []domain.Strategy{domain.StrategyFewShot}
	}

	return domain.TaskRecommendation{
		TaskType:        taskType,
		Confidence:      confidence,
		Explanation:     explain(taskType, ch),
		Strategies:      strategies,
		PrimaryStrategy: strategies[0],
		Characteristics: ch,
	}
}

func explain(taskType domain.TaskType, ch domain.TaskCharacteristics) string {
	switch taskType {
	case domain.TaskStructuredExtraction:
		return fmt.Sprintf("structured extraction - fixed format %.2f, structured output %.2f", ch.FixedFormat, ch.StructuredOutput)
	case domain.TaskOpenReasoning:
		return fmt.Sprintf("open reasoning - reasoning %.2f, open-endedness %.2f", ch.ReasoningComplexity, ch.OpenEndedNature)
	case domain.TaskAnalyticalReasoning:
		return fmt.Sprintf("analytical reasoning - reasoning %.2f, structured output %.2f", ch.ReasoningComplexity, ch.StructuredOutput)
	case domain.TaskCreativeGeneration:
		return fmt.Sprintf("creative generation - creativity %.2f, open-endedness %.2f", ch.CreativityRequired, ch.OpenEndedNature)
	case domain.TaskFactualQA:
		return fmt.Sprintf("factual QA - extraction focus %.2f, low reasoning demand", ch.ExtractionFocus)
	case domain.TaskProblemSolving:
		return fmt.Sprintf("problem solving - reasoning %.2f, creativity %.2f", ch.ReasoningComplexity, ch.CreativityRequired)
	default:
		return "unknown task type"
	}
}

func countLowerPresent(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			n++
		}
	}
	return n
}
