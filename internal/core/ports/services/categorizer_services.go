package services

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
)

// CategorizerSvc assigns a category to a description. It never fails.
type CategorizerSvc interface {
	Categorize(ctx context.Context, description string) domain.Category
}
