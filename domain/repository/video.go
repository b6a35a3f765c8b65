package repository

import (
	"context"

	"douyin-manager/domain/model"
)

// IVideo defines persistence for local video records. All lookups are scoped
// to the owning user.
type IVideo interface {
	Create(ctx context.Context, video *model.Video) (int64, error)
	GetByID(ctx context.Context, id, userID int64) (*model.Video, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]model.Video, int64, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, id, userID int64) error
}
