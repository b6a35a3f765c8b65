package persistence

import (
	"context"
	"database/sql"
	"time"

	"douyin-manager/domain/model"
)

type AIGenerationRepository struct{ db *sql.DB }

func NewAIGenerationRepository(db *sql.DB) *AIGenerationRepository {
	return &AIGenerationRepository{db: db}
}

func (r *AIGenerationRepository) Create(ctx context.Context, gen *model.AIGeneration) (int64, error) {
	now := time.Now().UTC()
	if gen.Status == "" {
		gen.Status = model.GenerationStatusSuccess
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO ai_generations (video_id, user_id, generation_type, model_name, prompt, result, file_path, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9) RETURNING id`,
		gen.VideoID, gen.UserID, gen.GenerationType, gen.ModelName, gen.Prompt, gen.Result, gen.FilePath, gen.Status, now).Scan(&id)
	if err != nil {
		return 0, err
	}
	gen.ID = id
	gen.CreatedAt = now
	gen.UpdatedAt = now
	return id, nil
}

func (r *AIGenerationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.AIGeneration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, video_id, user_id, generation_type, model_name, prompt, result, file_path, status, created_at, updated_at
		 FROM ai_generations WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []model.AIGeneration
	for rows.Next() {
		g := model.AIGeneration{}
		var videoID sql.NullInt64
		var result, filePath sql.NullString
		if err := rows.Scan(&g.ID, &videoID, &g.UserID, &g.GenerationType, &g.ModelName, &g.Prompt, &result, &filePath, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if videoID.Valid {
			v := videoID.Int64
			g.VideoID = &v
		}
		if result.Valid {
			s := result.String
			g.Result = &s
		}
		if filePath.Valid {
			s := filePath.String
			g.FilePath = &s
		}
		list = append(list, g)
	}
	return list, rows.Err()
}
