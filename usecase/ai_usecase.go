package usecase

import (
	"context"
	"fmt"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/utils"
)

// ITextGenerator generates text with a hosted language model.
type ITextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
}

// IImageGenerator generates images with a hosted diffusion model.
type IImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type IAIUsecase interface {
	GenerateText(ctx context.Context, userID int64, req dto.AITextRequest) (*dto.AITextResult, error)
	GenerateTitle(ctx context.Context, userID int64, req dto.AITitleRequest) (*dto.AITextResult, error)
	GenerateDescription(ctx context.Context, userID int64, req dto.AIDescriptionRequest) (*dto.AITextResult, error)
	GenerateScript(ctx context.Context, userID int64, req dto.AIScriptRequest) (*dto.AITextResult, error)
	GenerateImage(ctx context.Context, userID int64, req dto.AIImageRequest) (*dto.AIImageResult, error)
	History(ctx context.Context, userID int64, limit, offset int) ([]model.AIGeneration, error)
}

type aiUsecase struct {
	openAI         ITextGenerator
	stability      IImageGenerator
	generationRepo repository.IAIGeneration
}

func NewAIUsecase(openAI ITextGenerator, stability IImageGenerator, generationRepo repository.IAIGeneration) IAIUsecase {
	return &aiUsecase{openAI: openAI, stability: stability, generationRepo: generationRepo}
}

const copywriterSystem = "You are a short-video content assistant. Answer with the requested content only, no preamble."

func (u *aiUsecase) GenerateText(ctx context.Context, userID int64, req dto.AITextRequest) (*dto.AITextResult, error) {
	return u.text(ctx, userID, nil, req.Prompt, req.Prompt, req.MaxTokens)
}

func (u *aiUsecase) GenerateTitle(ctx context.Context, userID int64, req dto.AITitleRequest) (*dto.AITextResult, error) {
	prompt := fmt.Sprintf("Suggest 5 catchy short-video titles, one per line, for the following content:\n\n%s", req.Content)
	return u.text(ctx, userID, nil, req.Content, prompt, 300)
}

func (u *aiUsecase) GenerateDescription(ctx context.Context, userID int64, req dto.AIDescriptionRequest) (*dto.AITextResult, error) {
	prompt := fmt.Sprintf("Write an engaging short-video description with relevant hashtags.\nTitle: %s\nContent: %s", req.Title, req.Content)
	return u.text(ctx, userID, nil, req.Content, prompt, 400)
}

func (u *aiUsecase) GenerateScript(ctx context.Context, userID int64, req dto.AIScriptRequest) (*dto.AITextResult, error) {
	duration := req.Duration
	if duration <= 0 {
		duration = 60
	}
	prompt := fmt.Sprintf("Write a %d-second short-video script about: %s. Include scene directions and spoken lines.", duration, req.Topic)
	return u.text(ctx, userID, nil, req.Topic, prompt, 800)
}

func (u *aiUsecase) text(ctx context.Context, userID int64, videoID *int64, recordPrompt, prompt string, maxTokens int) (*dto.AITextResult, error) {
	const modelName = "gpt-4o-mini"
	result, err := u.openAI.GenerateText(ctx, copywriterSystem, prompt, maxTokens)
	u.record(ctx, userID, videoID, model.GenerationTypeText, modelName, recordPrompt, result, "", err)
	if err != nil {
		return nil, err
	}
	return &dto.AITextResult{Result: result, Model: modelName}, nil
}

func (u *aiUsecase) GenerateImage(ctx context.Context, userID int64, req dto.AIImageRequest) (*dto.AIImageResult, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = "dall-e"
	}

	var path string
	var err error
	switch modelName {
	case "stable-diffusion":
		path, err = u.stability.GenerateImage(ctx, req.Prompt)
	case "dall-e":
		path, err = u.openAI.GenerateImage(ctx, req.Prompt, "")
	default:
		return nil, fmt.Errorf("unsupported image model: %s", modelName)
	}
	u.record(ctx, userID, req.VideoID, model.GenerationTypeImage, modelName, req.Prompt, "", path, err)
	if err != nil {
		return nil, err
	}
	return &dto.AIImageResult{FilePath: path, Model: modelName, Prompt: req.Prompt}, nil
}

func (u *aiUsecase) History(ctx context.Context, userID int64, limit, offset int) ([]model.AIGeneration, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.generationRepo.ListByUser(ctx, userID, limit, offset)
}

// record persists the generation outcome. Persistence failures are logged and
// swallowed so a bookkeeping problem never masks a generation result.
func (u *aiUsecase) record(ctx context.Context, userID int64, videoID *int64, genType, modelName, prompt, result, filePath string, genErr error) {
	gen := &model.AIGeneration{
		UserID:         userID,
		VideoID:        videoID,
		GenerationType: genType,
		ModelName:      modelName,
		Prompt:         prompt,
		Status:         model.GenerationStatusSuccess,
		CreatedAt:      utils.GetCurrentTime(),
		UpdatedAt:      utils.GetCurrentTime(),
	}
	if result != "" {
		gen.Result = &result
	}
	if filePath != "" {
		gen.FilePath = &filePath
	}
	if genErr != nil {
		gen.Status = model.GenerationStatusFailed
		msg := genErr.Error()
		gen.Result = &msg
	}
	if _, err := u.generationRepo.Create(ctx, gen); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while recording AI generation")
	}
}
