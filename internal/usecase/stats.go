package usecase

import (
	"context"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

type StatsUseCase struct {
	Repo entity.WaitlistRepositoryInterface
}

func NewStatsUseCase(repo entity.WaitlistRepositoryInterface) *StatsUseCase {
	return &StatsUseCase{Repo: repo}
}

func (uc *StatsUseCase) Execute(ctx context.Context) (*StatsOutput, error) {
	total, err := uc.Repo.CountAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "signup count", Err: err}
	}

	languages, err := uc.Repo.CountByLanguage(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "language count", Err: err}
	}

	return &StatsOutput{
		TotalSignups: total,
		Languages:    languages,
	}, nil
}
