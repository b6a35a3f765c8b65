package repository

import (
	"context"

	"douyin-manager/domain/model"
)

// IAIGeneration defines persistence for AI generation records.
type IAIGeneration interface {
	Create(ctx context.Context, gen *model.AIGeneration) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.AIGeneration, error)
}
