package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/repository"
)

// VideoListCache keeps pages of the remote video list in Redis so repeated
// dashboard loads do not burn platform API quota. A nil Redis client turns
// every operation into a no-op miss.
type VideoListCache struct {
	client *redis.Client
}

func NewVideoListCache(client *redis.Client) repository.IVideoListCache {
	return &VideoListCache{client: client}
}

func videoListKey(userID int64, cursor int64) string {
	return fmt.Sprintf("douyin:videos:%d:%d", userID, cursor)
}

func (c *VideoListCache) Get(ctx context.Context, userID int64, cursor int64) (*dto.DouyinVideoList, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, videoListKey(userID, cursor)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := &dto.DouyinVideoList{}
	if err := json.Unmarshal(raw, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *VideoListCache) Set(ctx context.Context, userID int64, cursor int64, list *dto.DouyinVideoList, ttl time.Duration) error {
	if c.client == nil || list == nil {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, videoListKey(userID, cursor), raw, ttl).Err()
}
