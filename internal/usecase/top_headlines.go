package usecase

import (
	"context"

	"github.com/samvad-hq/samvad-headlines/internal/domain"
)

// HeadlinesRepository is the data source behind GetTopHeadlines.
type HeadlinesRepository interface {
	TopHeadlines(ctx context.Context) ([]domain.Article, error)
}

// GetTopHeadlines is the seam between the state machine and the data layer.
type GetTopHeadlines struct {
	repo HeadlinesRepository
}

func NewGetTopHeadlines(repo HeadlinesRepository) *GetTopHeadlines {
	return &GetTopHeadlines{repo: repo}
}

// Invoke returns the repository result unchanged.
func (u *GetTopHeadlines) Invoke(ctx context.Context) ([]domain.Article, error) {
	return u.repo.TopHeadlines(ctx)
}
