package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
)

type ScheduleExperimentUseCase struct {
	repo  ports.RunRepository
	queue ports.RunQueue
}

func NewScheduleExperimentUseCase(repo ports.RunRepository, queue ports.RunQueue) *ScheduleExperimentUseCase {
	return &ScheduleExperimentUseCase{repo: repo, queue: queue}
}

// Schedule records a queued run and hands its ID to the worker queue.
func (uc *ScheduleExperimentUseCase) Schedule(
	ctx context.Context,
	name string,
	mode domain.RunMode,
	dataset string,
) (*domain.ExperimentRun, error) {
	if _, err := domain.ParseRunMode(string(mode)); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "schedule run", err)
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "schedule run", errors.New("empty run name"))
	}

	now := time.Now().UTC()
	run := &domain.ExperimentRun{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      mode,
		Dataset:   dataset,
		Status:    domain.RunQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}
	if err := uc.queue.PublishRunQueued(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("publish run event: %w", err)
	}
	return run, nil
}
