package persistence

import (
	"context"
	"database/sql"
	"time"

	"douyin-manager/domain/model"
)

type VideoRepository struct{ db *sql.DB }

func NewVideoRepository(db *sql.DB) *VideoRepository { return &VideoRepository{db: db} }

const selectVideoColumns = `SELECT id, user_id, title, description, file_path, thumbnail_path, duration, file_size, status, publish_status, douyin_video_id, douyin_url, created_at, updated_at FROM videos `

func scanVideo(row interface{ Scan(...interface{}) error }) (*model.Video, error) {
	v := &model.Video{}
	var thumb, dyID, dyURL sql.NullString
	var duration sql.NullInt64
	var fileSize sql.NullInt64
	if err := row.Scan(&v.ID, &v.UserID, &v.Title, &v.Description, &v.FilePath, &thumb, &duration, &fileSize, &v.Status, &v.PublishStatus, &dyID, &dyURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if thumb.Valid {
		s := thumb.String
		v.ThumbnailPath = &s
	}
	if duration.Valid {
		d := int(duration.Int64)
		v.Duration = &d
	}
	if fileSize.Valid {
		s := fileSize.Int64
		v.FileSize = &s
	}
	if dyID.Valid {
		s := dyID.String
		v.DouyinVideoID = &s
	}
	if dyURL.Valid {
		s := dyURL.String
		v.DouyinURL = &s
	}
	return v, nil
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) (int64, error) {
	now := time.Now().UTC()
	if video.Status == "" {
		video.Status = model.VideoStatusDraft
	}
	if video.PublishStatus == "" {
		video.PublishStatus = string(model.PublishStatusPending)
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO videos (user_id, title, description, file_path, thumbnail_path, duration, file_size, status, publish_status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10) RETURNING id`,
		video.UserID, video.Title, video.Description, video.FilePath, video.ThumbnailPath, video.Duration, video.FileSize, video.Status, video.PublishStatus, now).Scan(&id)
	if err != nil {
		return 0, err
	}
	video.ID = id
	video.CreatedAt = now
	video.UpdatedAt = now
	return id, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id, userID int64) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, selectVideoColumns+`WHERE id=$1 AND user_id=$2`, id, userID)
	v, err := scanVideo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VideoRepository) List(ctx context.Context, userID int64, limit, offset int) ([]model.Video, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, selectVideoColumns+`WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *v)
	}
	return list, total, rows.Err()
}

func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE videos SET title=$1, description=$2, status=$3, publish_status=$4, updated_at=$5 WHERE id=$6 AND user_id=$7`,
		video.Title, video.Description, video.Status, video.PublishStatus, time.Now().UTC(), video.ID, video.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
