package model

import "time"

const (
	GenerationTypeText  = "text"
	GenerationTypeImage = "image"

	GenerationStatusPending = "pending"
	GenerationStatusSuccess = "success"
	GenerationStatusFailed  = "failed"
)

// AIGeneration records one AI content generation request and its outcome.
type AIGeneration struct {
	ID             int64     `json:"id"`
	VideoID        *int64    `json:"video_id,omitempty"`
	UserID         int64     `json:"user_id"`
	GenerationType string    `json:"generation_type"`
	ModelName      string    `json:"model_name"`
	Prompt         string    `json:"prompt"`
	Result         *string   `json:"result,omitempty"`
	FilePath       *string   `json:"file_path,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
