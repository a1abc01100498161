package domain

import "fmt"

// Strategy names a fixed prompt formulation prepended to user input
// before submission to the model.
type Strategy string

const (
	StrategyBaseline       Strategy = "baseline"
	StrategyRulesBased     Strategy = "rules_based"
	StrategyFewShot        Strategy = "few_shot"
	StrategyChainOfThought Strategy = "cot"
	StrategyReAct          Strategy = "react"
)

// Strategies lists the concrete prompt strategies from cheapest to most
// expensive.
func Strategies() []Strategy {
	return []Strategy{
		StrategyBaseline,
		StrategyRulesBased,
		StrategyFewShot,
		StrategyChainOfThought,
		StrategyReAct,
	}
}

func ParseStrategy(raw string) (Strategy, error) {
	s := Strategy(raw)
	switch s {
	case StrategyBaseline, StrategyRulesBased, StrategyFewShot, StrategyChainOfThought, StrategyReAct:
		return s, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", raw)
	}
}

// RunMode is either a fixed strategy or adaptive per-sentence selection.
type RunMode string

const ModeSmart RunMode = "smart"

func ParseRunMode(raw string) (RunMode, error) {
	if RunMode(raw) == ModeSmart {
		return ModeSmart, nil
	}
	s, err := ParseStrategy(raw)
	if err != nil {
		return "", fmt.Errorf("unknown run mode %q", raw)
	}
	return RunMode(s), nil
}

// TokensSavedPerRulesPick is the observed average prompt overhead avoided
// when the cheap rules-based context replaces few-shot.
const TokensSavedPerRulesPick = 128

// PromptTokenEstimate is the approximate prompt overhead per strategy,
// measured once against the builders and used for cost accounting.
func PromptTokenEstimate(s Strategy) int {
	switch s {
	case StrategyBaseline:
		return 60
	case StrategyRulesBased:
		return 120
	case StrategyFewShot:
		return 250
	case StrategyChainOfThought:
		return 350
	case StrategyReAct:
		return 450
	default:
		return 200
	}
}
