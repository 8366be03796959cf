// Package categories manages product categories and their manufacturing
// stages.
package categories

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
)

// CreateInput carries a new category.
type CreateInput struct {
	Title               string   `json:"title" validate:"required,max=120"`
	Description         string   `json:"description" validate:"max=2000"`
	ManufacturingStages []string `json:"manufacturingStages" validate:"max=50"`
}

type Service struct {
	repo *store.Repository
}

func NewService(repo *store.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.Categories(ctx)
}

// Create stores a category. Blank stages are dropped and the rest trimmed.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Category, error) {
	return s.repo.SaveCategory(ctx, domain.Category{
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		ManufacturingStages: cleanStages(in.ManufacturingStages),
	})
}

func cleanStages(stages []string) []string {
	out := lo.FilterMap(stages, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	if out == nil {
		return []string{}
	}
	return out
}
