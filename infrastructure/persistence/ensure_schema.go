package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchema creates the application tables if they do not exist.
// Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			user_name TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS platform_credentials (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
			platform TEXT NOT NULL DEFAULT 'douyin',
			open_id TEXT,
			access_token TEXT NOT NULL DEFAULT '',
			refresh_token TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ,
			scopes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			file_path TEXT NOT NULL,
			thumbnail_path TEXT,
			duration INT,
			file_size BIGINT,
			status TEXT NOT NULL DEFAULT 'draft',
			publish_status TEXT NOT NULL DEFAULT 'pending',
			douyin_video_id TEXT,
			douyin_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS publish_tasks (
			id BIGSERIAL PRIMARY KEY,
			video_id BIGINT NOT NULL REFERENCES videos(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			task_id TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'pending',
			progress INT NOT NULL DEFAULT 0,
			error_message TEXT,
			douyin_video_id TEXT,
			douyin_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ai_generations (
			id BIGSERIAL PRIMARY KEY,
			video_id BIGINT REFERENCES videos(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			generation_type TEXT NOT NULL,
			model_name TEXT NOT NULL,
			prompt TEXT NOT NULL,
			result TEXT,
			file_path TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_user_id ON videos(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_tasks_video_id ON publish_tasks(video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_generations_user_id ON ai_generations(user_id)`,
	}

	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
