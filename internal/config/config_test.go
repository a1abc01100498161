package config

import "testing"

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("PREDICTOR_THRESHOLD", "")
	t.Setenv("PREDICTOR_EXTENDED", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_RATE_LIMIT_RPS", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.PredictorThreshold != 0.4 {
		t.Fatalf("expected default threshold 0.4, got %f", cfg.PredictorThreshold)
	}
	if cfg.PredictorExtended {
		t.Fatalf("expected extended predictor off by default")
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.LLMModel)
	}
	if cfg.LLMRateLimit != 2 {
		t.Fatalf("expected default rate limit 2, got %f", cfg.LLMRateLimit)
	}
	if cfg.NATSSubject != "experiments.run" {
		t.Fatalf("expected default subject, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("PREDICTOR_THRESHOLD", "0.55")
	t.Setenv("PREDICTOR_EXTENDED", "true")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_RATE_LIMIT_BURST", "5")

	cfg := Load()
	if cfg.PredictorThreshold != 0.55 {
		t.Fatalf("expected threshold 0.55, got %f", cfg.PredictorThreshold)
	}
	if !cfg.PredictorExtended {
		t.Fatalf("expected extended predictor on")
	}
	if cfg.LLMTemperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %f", cfg.LLMTemperature)
	}
	if cfg.LLMRateBurst != 5 {
		t.Fatalf("expected burst 5, got %d", cfg.LLMRateBurst)
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("PREDICTOR_THRESHOLD", "not-a-number")
	t.Setenv("PREDICTOR_EXTENDED", "maybe")

	cfg := Load()
	if cfg.PredictorThreshold != 0.4 {
		t.Fatalf("expected fallback threshold, got %f", cfg.PredictorThreshold)
	}
	if cfg.PredictorExtended {
		t.Fatalf("expected fallback extended=false")
	}
}
