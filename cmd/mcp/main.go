package main

import (
	"os"

	mcpadapter "contextlab/internal/adapters/mcp"
	"contextlab/internal/config"
	"contextlab/internal/core/ports"
	"contextlab/internal/core/usecase"
	"contextlab/internal/observability/logging"
	"contextlab/internal/strategy"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	var predictor ports.StrategyPredictor = strategy.NewPredictor().WithThreshold(cfg.PredictorThreshold)
	if cfg.PredictorExtended {
		predictor = strategy.NewExtendedPredictor()
	}
	advisor := usecase.NewAdviseUseCase(predictor, strategy.NewTaskClassifier())

	logger.Info("mcp_serving", "version", version)
	if err := mcpadapter.NewServer(advisor, version).ServeStdio(); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
