package dto

// AITextRequest asks for free-form text generation.
type AITextRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// AITitleRequest asks for video title suggestions from raw content.
type AITitleRequest struct {
	Content string `json:"content" binding:"required"`
}

// AIDescriptionRequest asks for a video description from title + content.
type AIDescriptionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// AIScriptRequest asks for a short-video script for a topic.
type AIScriptRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Duration int    `json:"duration,omitempty"` // seconds, default 60
}

// AIImageRequest asks for an image generation.
type AIImageRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Model   string `json:"model,omitempty"` // dall-e | stable-diffusion
	VideoID *int64 `json:"video_id,omitempty"`
}

// AITextResult is the outcome of a text generation call.
type AITextResult struct {
	Result string `json:"result"`
	Model  string `json:"model"`
}

// AIImageResult is the outcome of an image generation call.
type AIImageResult struct {
	FilePath string `json:"file_path"`
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
}
