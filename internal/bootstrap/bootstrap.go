package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"contextlab/internal/config"
	"contextlab/internal/core/ports"
	"contextlab/internal/core/usecase"
	"contextlab/internal/dataset"
	"contextlab/internal/infrastructure/llm/openai"
	"contextlab/internal/infrastructure/queue/nats"
	"contextlab/internal/infrastructure/repository/postgres"
	"contextlab/internal/infrastructure/resilience"
	"contextlab/internal/infrastructure/storage/localfs"
	"contextlab/internal/report"
	"contextlab/internal/strategy"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue ports.RunQueue
	Repo  ports.RunRepository

	ScheduleUC ports.ExperimentScheduler
	RunUC      ports.ExperimentRunner
	AdvisorUC  ports.Advisor
	CompareUC  ports.StrategyComparer
	Reports    ports.ReportSink

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init run queue: %w", err)
	}

	store, err := localfs.New(cfg.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}

	llm := openai.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel,
		openai.WithTemperature(cfg.LLMTemperature),
		openai.WithRateLimit(cfg.LLMRateLimit, cfg.LLMRateBurst),
		openai.WithResilience(executor),
	)

	predictor := newPredictor(cfg)
	datasets := dataset.NewSource()

	return &App{
		Config: cfg,
		Logger: logger,
		Queue:  queue,
		Repo:   repo,

		ScheduleUC: usecase.NewScheduleExperimentUseCase(repo, queue),
		RunUC:      usecase.NewRunExperimentUseCase(repo, datasets, llm, predictor),
		AdvisorUC:  usecase.NewAdviseUseCase(predictor, strategy.NewTaskClassifier()),
		CompareUC:  usecase.NewCompareStrategiesUseCase(datasets, llm, predictor),
		Reports:    report.NewSink(store),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newPredictor(cfg config.Config) ports.StrategyPredictor {
	if cfg.PredictorExtended {
		return strategy.NewExtendedPredictor()
	}
	return strategy.NewPredictor().WithThreshold(cfg.PredictorThreshold)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
