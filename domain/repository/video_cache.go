package repository

import (
	"context"
	"time"

	"douyin-manager/domain/dto"
)

// IVideoListCache caches platform video-list pages so repeated dashboard loads
// do not hit the platform on every request.
type IVideoListCache interface {
	Get(ctx context.Context, userID int64, cursor int64) (*dto.DouyinVideoList, error)
	Set(ctx context.Context, userID int64, cursor int64, list *dto.DouyinVideoList, ttl time.Duration) error
}
