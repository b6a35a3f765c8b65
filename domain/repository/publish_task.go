package repository

import (
	"context"

	"douyin-manager/domain/model"
)

// IPublishTask defines persistence for publish tasks. Reconcile applies a
// status report to the task and the owning video's publish_status mirror in
// one transaction; a reader never sees the pair half updated.
type IPublishTask interface {
	Create(ctx context.Context, task *model.PublishTask) (int64, error)
	GetByTaskID(ctx context.Context, taskID string, userID int64) (*model.PublishTask, error)
	ListByVideo(ctx context.Context, videoID, userID int64) ([]model.PublishTask, error)
	Reconcile(ctx context.Context, taskID string, report model.PublishStatusReport) error
}
