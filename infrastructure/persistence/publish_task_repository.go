package persistence

import (
	"context"
	"database/sql"
	"time"

	"douyin-manager/domain/model"
)

// PublishTaskRepository persists publish tasks and keeps the owning video's
// publish_status mirror in sync.
type PublishTaskRepository struct{ db *sql.DB }

func NewPublishTaskRepository(db *sql.DB) *PublishTaskRepository {
	return &PublishTaskRepository{db: db}
}

const selectTaskColumns = `SELECT id, video_id, user_id, task_id, status, progress, error_message, douyin_video_id, douyin_url, created_at, updated_at FROM publish_tasks `

func scanTask(row interface{ Scan(...interface{}) error }) (*model.PublishTask, error) {
	t := &model.PublishTask{}
	var errMsg, dyID, dyURL sql.NullString
	if err := row.Scan(&t.ID, &t.VideoID, &t.UserID, &t.TaskID, &t.Status, &t.Progress, &errMsg, &dyID, &dyURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if errMsg.Valid {
		s := errMsg.String
		t.ErrorMessage = &s
	}
	if dyID.Valid {
		s := dyID.String
		t.DouyinVideoID = &s
	}
	if dyURL.Valid {
		s := dyURL.String
		t.DouyinURL = &s
	}
	return t, nil
}

func (r *PublishTaskRepository) Create(ctx context.Context, task *model.PublishTask) (int64, error) {
	now := time.Now().UTC()
	if task.Status == "" {
		task.Status = model.PublishStatusProcessing
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO publish_tasks (video_id, user_id, task_id, status, progress, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$6) RETURNING id`,
		task.VideoID, task.UserID, task.TaskID, task.Status, task.Progress, now).Scan(&id)
	if err != nil {
		return 0, err
	}
	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	return id, nil
}

func (r *PublishTaskRepository) GetByTaskID(ctx context.Context, taskID string, userID int64) (*model.PublishTask, error) {
	row := r.db.QueryRowContext(ctx, selectTaskColumns+`WHERE task_id=$1 AND user_id=$2`, taskID, userID)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *PublishTaskRepository) ListByVideo(ctx context.Context, videoID, userID int64) ([]model.PublishTask, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`WHERE video_id=$1 AND user_id=$2 ORDER BY created_at DESC`, videoID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []model.PublishTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Reconcile applies a status report to the task row and the owning video's
// publish_status inside a single transaction.
func (r *PublishTaskRepository) Reconcile(ctx context.Context, taskID string, report model.PublishStatusReport) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	var videoID int64
	err = tx.QueryRowContext(ctx,
		`UPDATE publish_tasks SET status=$1, progress=$2, error_message=$3, douyin_video_id=$4, douyin_url=$5, updated_at=$6 WHERE task_id=$7 RETURNING video_id`,
		report.Status, report.Progress, report.ErrorMessage, report.DouyinVideoID, report.DouyinURL, now, taskID).Scan(&videoID)
	if err != nil {
		return err
	}

	videoStatus := ""
	if report.Status == model.PublishStatusSuccess {
		videoStatus = model.VideoStatusPublished
	} else if report.Status == model.PublishStatusFailed {
		videoStatus = model.VideoStatusFailed
	}
	if videoStatus != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE videos SET publish_status=$1, status=$2, douyin_video_id=COALESCE($3, douyin_video_id), douyin_url=COALESCE($4, douyin_url), updated_at=$5 WHERE id=$6`,
			report.Status, videoStatus, report.DouyinVideoID, report.DouyinURL, now, videoID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE videos SET publish_status=$1, updated_at=$2 WHERE id=$3`,
			report.Status, now, videoID)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}
