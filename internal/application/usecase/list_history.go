package usecase

import (
	"context"
	"fmt"

	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/repository"
)

// defaultHistoryLimit is used when the caller passes no explicit limit.
const defaultHistoryLimit = 20

// ListHistoryUseCase serves recent panel navigations to the CLI.
type ListHistoryUseCase struct {
	repo repository.NavHistoryRepository
}

// NewListHistoryUseCase creates a new ListHistoryUseCase.
func NewListHistoryUseCase(repo repository.NavHistoryRepository) *ListHistoryUseCase {
	return &ListHistoryUseCase{repo: repo}
}

// Execute returns up to limit entries, newest first.
func (uc *ListHistoryUseCase) Execute(ctx context.Context, limit int) ([]entity.NavEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := uc.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
