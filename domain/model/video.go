package model

import "time"

// Video statuses for the local record lifecycle.
const (
	VideoStatusDraft     = "draft"
	VideoStatusPublished = "published"
	VideoStatusFailed    = "failed"
)

// Video is a locally managed video. PublishStatus mirrors the most recent
// publish task for this video and is updated in the same transaction as the
// task itself.
type Video struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FilePath      string    `json:"file_path"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	Duration      *int      `json:"duration,omitempty"`
	FileSize      *int64    `json:"file_size,omitempty"`
	Status        string    `json:"status"`
	PublishStatus string    `json:"publish_status"`
	DouyinVideoID *string   `json:"douyin_video_id,omitempty"`
	DouyinURL     *string   `json:"douyin_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
