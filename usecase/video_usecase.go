package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/configuration"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/utils"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoPage struct {
	Videos []model.Video `json:"videos"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Size   int           `json:"size"`
}

type IVideoUsecase interface {
	Upload(ctx context.Context, userID int64, req dto.VideoUploadRequest) (*model.Video, error)
	Get(ctx context.Context, id, userID int64) (*model.Video, error)
	List(ctx context.Context, userID int64, req dto.VideoListRequest) (*VideoPage, error)
	Update(ctx context.Context, id, userID int64, req dto.VideoUpdateRequest) (*model.Video, error)
	Delete(ctx context.Context, id, userID int64) error
}

type videoUsecase struct {
	videoRepository repository.IVideo
}

func NewVideoUsecase(videoRepository repository.IVideo) IVideoUsecase {
	return &videoUsecase{videoRepository: videoRepository}
}

// Upload stores the file under the configured upload directory with a
// generated name and creates the local record as a draft.
func (u *videoUsecase) Upload(ctx context.Context, userID int64, req dto.VideoUploadRequest) (*model.Video, error) {
	if req.File == nil {
		return nil, errors.New("file is required")
	}
	if req.File.Size > configuration.C.Upload.MaxFileSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", configuration.C.Upload.MaxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(req.File.Filename))
	switch ext {
	case ".mp4", ".mov", ".avi", ".webm", ".mkv":
	default:
		return nil, fmt.Errorf("unsupported video format: %s", ext)
	}

	if err := os.MkdirAll(configuration.C.Upload.Dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(configuration.C.Upload.Dir, name)
	if err := saveUploadedFile(req.File, dst); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while saving uploaded file")
		return nil, err
	}

	size := req.File.Size
	video := &model.Video{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		FilePath:      dst,
		FileSize:      &size,
		Status:        model.VideoStatusDraft,
		PublishStatus: string(model.PublishStatusPending),
		CreatedAt:     utils.GetCurrentTime(),
		UpdatedAt:     utils.GetCurrentTime(),
	}
	id, err := u.videoRepository.Create(ctx, video)
	if err != nil {
		// The record failed, do not keep the orphaned file around.
		_ = os.Remove(dst)
		return nil, err
	}
	video.ID = id
	return video, nil
}

func (u *videoUsecase) Get(ctx context.Context, id, userID int64) (*model.Video, error) {
	video, err := u.videoRepository.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (u *videoUsecase) List(ctx context.Context, userID int64, req dto.VideoListRequest) (*VideoPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	videos, total, err := u.videoRepository.List(ctx, userID, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	return &VideoPage{Videos: videos, Total: total, Page: page, Size: size}, nil
}

func (u *videoUsecase) Update(ctx context.Context, id, userID int64, req dto.VideoUpdateRequest) (*model.Video, error) {
	video, err := u.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	video.UpdatedAt = utils.GetCurrentTime()
	if err := u.videoRepository.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (u *videoUsecase) Delete(ctx context.Context, id, userID int64) error {
	video, err := u.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := u.videoRepository.Delete(ctx, id, userID); err != nil {
		return err
	}
	if video.FilePath != "" {
		if err := os.Remove(video.FilePath); err != nil && !os.IsNotExist(err) {
			logger.GetLogger().WithField("error", err).Warn("Error while removing video file")
		}
	}
	return nil
}

func saveUploadedFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
