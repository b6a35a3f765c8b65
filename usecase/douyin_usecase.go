package usecase

import (
	"context"
	"errors"
	"os"
	"time"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/realtime"
	"douyin-manager/infrastructure/utils"
)

const videoListCacheTTL = 5 * time.Minute

var ErrTaskNotFound = errors.New("publish task not found")

type IDouyinUsecase interface {
	AuthorizationURL(state string) string
	HandleCallback(ctx context.Context, userID int64, code string) error
	Disconnect(ctx context.Context, userID int64) error
	ConnectionStatus(ctx context.Context, userID int64) (bool, *dto.DouyinUserInfo, error)
	ListPlatformVideos(ctx context.Context, userID int64, req *dto.DouyinVideoListRequest) (*dto.DouyinVideoList, error)
	Publish(ctx context.Context, userID, videoID int64) (*model.PublishTask, error)
	CheckStatus(ctx context.Context, userID int64, taskID string) (*model.PublishStatusReport, error)
}

type douyinUsecase struct {
	client         repository.IDouyin
	tokens         ITokenManager
	credentialRepo repository.ICredential
	videoRepo      repository.IVideo
	taskRepo       repository.IPublishTask
	listCache      repository.IVideoListCache
	hub            *realtime.Hub
}

func NewDouyinUsecase(
	client repository.IDouyin,
	tokens ITokenManager,
	credentialRepo repository.ICredential,
	videoRepo repository.IVideo,
	taskRepo repository.IPublishTask,
	listCache repository.IVideoListCache,
	hub *realtime.Hub,
) IDouyinUsecase {
	return &douyinUsecase{
		client:         client,
		tokens:         tokens,
		credentialRepo: credentialRepo,
		videoRepo:      videoRepo,
		taskRepo:       taskRepo,
		listCache:      listCache,
		hub:            hub,
	}
}

func (u *douyinUsecase) AuthorizationURL(state string) string {
	return u.client.AuthorizationURL(state)
}

// HandleCallback finishes the consent flow: exchanges the code, fetches the
// platform profile and stores the credential for the user.
func (u *douyinUsecase) HandleCallback(ctx context.Context, userID int64, code string) error {
	grant, err := u.client.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	now := utils.GetCurrentTime()
	expiresAt := now.Add(time.Duration(grant.ExpiresIn) * time.Second)

	cred := &model.PlatformCredential{
		UserID:       userID,
		Platform:     "douyin",
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    &expiresAt,
		Scopes:       grant.Scope,
	}
	if grant.OpenID != "" {
		cred.OpenID = &grant.OpenID
	} else if info, err := u.client.GetUserInfo(ctx, grant.AccessToken); err == nil && info.OpenID != "" {
		cred.OpenID = &info.OpenID
	}

	if err := u.credentialRepo.Upsert(ctx, cred); err != nil {
		return err
	}
	logger.GetLogger().WithField("user_id", userID).Info("Douyin account connected")
	return nil
}

func (u *douyinUsecase) Disconnect(ctx context.Context, userID int64) error {
	return u.credentialRepo.UpdateTokens(ctx, userID, "", "", utils.GetCurrentTime())
}

func (u *douyinUsecase) ConnectionStatus(ctx context.Context, userID int64) (bool, *dto.DouyinUserInfo, error) {
	token, err := u.tokens.EnsureValidToken(ctx, userID)
	if errors.Is(err, model.ErrNotAuthorized) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	info, err := u.client.GetUserInfo(ctx, token)
	if err != nil {
		// The credential is usable even when the profile lookup fails.
		return true, nil, nil
	}
	return true, info, nil
}

// ListPlatformVideos serves platform video pages cache-first.
func (u *douyinUsecase) ListPlatformVideos(ctx context.Context, userID int64, req *dto.DouyinVideoListRequest) (*dto.DouyinVideoList, error) {
	var cursor int64
	if req != nil {
		cursor = req.Cursor
	}
	if cached, err := u.listCache.Get(ctx, userID, cursor); err == nil && cached != nil {
		return cached, nil
	}

	token, err := u.tokens.EnsureValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := u.client.ListVideos(ctx, token, req)
	if err != nil {
		return nil, err
	}
	if err := u.listCache.Set(ctx, userID, cursor, list, videoListCacheTTL); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while caching video list")
	}
	return list, nil
}

// Publish pushes a local video to the platform. The three-phase upload either
// fully succeeds and yields a task record in status processing, or fails with
// a *model.PublishError and leaves no task behind.
func (u *douyinUsecase) Publish(ctx context.Context, userID, videoID int64) (*model.PublishTask, error) {
	video, err := u.videoRepo.GetByID(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	token, err := u.tokens.EnsureValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(video.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	taskID, err := u.client.Publish(ctx, token, f, video.Title, video.Description)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			WithField("video_id", videoID).
			Error("Publish to Douyin failed")
		return nil, err
	}

	task := &model.PublishTask{
		VideoID:  videoID,
		UserID:   userID,
		TaskID:   taskID,
		Status:   model.PublishStatusProcessing,
		Progress: 0,
	}
	id, err := u.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	video.PublishStatus = string(model.PublishStatusProcessing)
	video.UpdatedAt = utils.GetCurrentTime()
	if err := u.videoRepo.Update(ctx, video); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while mirroring publish status onto video")
	}

	logger.GetLogger().
		WithField("user_id", userID).
		WithField("video_id", videoID).
		WithField("task_id", taskID).
		Info("Publish task created")
	return task, nil
}

// CheckStatus queries the platform for the task, maps its status onto the
// local vocabulary and reconciles task and video in one transaction. A failed
// query leaves local state untouched and returns a *model.StatusQueryError.
func (u *douyinUsecase) CheckStatus(ctx context.Context, userID int64, taskID string) (*model.PublishStatusReport, error) {
	task, err := u.taskRepo.GetByTaskID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.Status.Terminal() {
		return reportFromTask(task), nil
	}

	token, err := u.tokens.EnsureValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	external, err := u.client.QueryTaskStatus(ctx, token, taskID)
	if err != nil {
		return nil, &model.StatusQueryError{TaskID: taskID, Err: err}
	}

	report := model.PublishStatusReport{
		TaskID:   taskID,
		Status:   model.PublishStatusFromExternal(external.Status),
		Progress: external.Progress,
	}
	if external.VideoID != "" {
		report.DouyinVideoID = &external.VideoID
	}
	if external.ShareURL != "" {
		report.DouyinURL = &external.ShareURL
	}
	if external.ErrorMessage != "" {
		report.ErrorMessage = &external.ErrorMessage
	}
	if report.Status == model.PublishStatusSuccess {
		report.Progress = 100
	}

	if err := u.taskRepo.Reconcile(ctx, taskID, report); err != nil {
		return nil, err
	}
	u.hub.BroadcastPublishStatus(task, &report)
	return &report, nil
}

func reportFromTask(task *model.PublishTask) *model.PublishStatusReport {
	return &model.PublishStatusReport{
		TaskID:        task.TaskID,
		Status:        task.Status,
		Progress:      task.Progress,
		ErrorMessage:  task.ErrorMessage,
		DouyinVideoID: task.DouyinVideoID,
		DouyinURL:     task.DouyinURL,
	}
}
