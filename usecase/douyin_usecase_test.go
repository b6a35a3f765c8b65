package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/infrastructure/realtime"
)

type fakeTokenManager struct {
	token string
	err   error
}

func (f *fakeTokenManager) EnsureValidToken(ctx context.Context, userID int64) (string, error) {
	return f.token, f.err
}

type fakeDouyinClient struct {
	publishTaskID string
	publishErr    error
	taskStatus    *dto.DouyinTaskStatus
	statusErr     error
	videoList     *dto.DouyinVideoList
	listCalls     int
}

func (f *fakeDouyinClient) AuthorizationURL(state string) string { return "https://auth?state=" + state }
func (f *fakeDouyinClient) ExchangeCode(ctx context.Context, code string) (*dto.DouyinTokenGrant, error) {
	return &dto.DouyinTokenGrant{AccessToken: "A1", RefreshToken: "R1", ExpiresIn: 3600, OpenID: "open-1"}, nil
}
func (f *fakeDouyinClient) RefreshToken(ctx context.Context, refreshToken string) (*dto.DouyinTokenGrant, error) {
	return nil, errors.New("not used")
}
func (f *fakeDouyinClient) GetUserInfo(ctx context.Context, accessToken string) (*dto.DouyinUserInfo, error) {
	return &dto.DouyinUserInfo{OpenID: "open-1", Nickname: "tester"}, nil
}
func (f *fakeDouyinClient) ListVideos(ctx context.Context, accessToken string, req *dto.DouyinVideoListRequest) (*dto.DouyinVideoList, error) {
	f.listCalls++
	return f.videoList, nil
}
func (f *fakeDouyinClient) Publish(ctx context.Context, accessToken string, payload io.Reader, title, description string) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	return f.publishTaskID, nil
}
func (f *fakeDouyinClient) QueryTaskStatus(ctx context.Context, accessToken, taskID string) (*dto.DouyinTaskStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.taskStatus, nil
}

type fakeVideoRepo struct {
	video   *model.Video
	updates int
}

func (f *fakeVideoRepo) Create(ctx context.Context, video *model.Video) (int64, error) {
	return 1, nil
}
func (f *fakeVideoRepo) GetByID(ctx context.Context, id, userID int64) (*model.Video, error) {
	if f.video == nil || f.video.ID != id || f.video.UserID != userID {
		return nil, nil
	}
	v := *f.video
	return &v, nil
}
func (f *fakeVideoRepo) List(ctx context.Context, userID int64, limit, offset int) ([]model.Video, int64, error) {
	return nil, 0, nil
}
func (f *fakeVideoRepo) Update(ctx context.Context, video *model.Video) error {
	f.updates++
	f.video = video
	return nil
}
func (f *fakeVideoRepo) Delete(ctx context.Context, id, userID int64) error { return nil }

type fakeTaskRepo struct {
	task       *model.PublishTask
	created    int
	reconciled *model.PublishStatusReport
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *model.PublishTask) (int64, error) {
	f.created++
	f.task = task
	return 12, nil
}
func (f *fakeTaskRepo) GetByTaskID(ctx context.Context, taskID string, userID int64) (*model.PublishTask, error) {
	if f.task == nil || f.task.TaskID != taskID {
		return nil, nil
	}
	t := *f.task
	return &t, nil
}
func (f *fakeTaskRepo) ListByVideo(ctx context.Context, videoID, userID int64) ([]model.PublishTask, error) {
	return nil, nil
}
func (f *fakeTaskRepo) Reconcile(ctx context.Context, taskID string, report model.PublishStatusReport) error {
	f.reconciled = &report
	if f.task != nil {
		f.task.Status = report.Status
		f.task.Progress = report.Progress
	}
	return nil
}

type fakeListCache struct {
	entries map[int64]*dto.DouyinVideoList
	sets    int
}

func (f *fakeListCache) Get(ctx context.Context, userID int64, cursor int64) (*dto.DouyinVideoList, error) {
	if f.entries == nil {
		return nil, nil
	}
	return f.entries[cursor], nil
}
func (f *fakeListCache) Set(ctx context.Context, userID int64, cursor int64, list *dto.DouyinVideoList, ttl time.Duration) error {
	f.sets++
	if f.entries == nil {
		f.entries = map[int64]*dto.DouyinVideoList{}
	}
	f.entries[cursor] = list
	return nil
}

func tempVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake mp4 payload"), 0o644))
	return path
}

func newDouyinFixture(t *testing.T, client *fakeDouyinClient) (IDouyinUsecase, *fakeVideoRepo, *fakeTaskRepo, *fakeListCache) {
	videoRepo := &fakeVideoRepo{video: &model.Video{
		ID:       5,
		UserID:   7,
		Title:    "My clip",
		FilePath: tempVideoFile(t),
		Status:   model.VideoStatusDraft,
	}}
	taskRepo := &fakeTaskRepo{}
	listCache := &fakeListCache{}
	uc := NewDouyinUsecase(
		client,
		&fakeTokenManager{token: "A1"},
		&fakeCredentialRepo{},
		videoRepo,
		taskRepo,
		listCache,
		realtime.NewPublishHub(),
	)
	return uc, videoRepo, taskRepo, listCache
}

func TestPublish_Success_CreatesProcessingTask(t *testing.T) {
	client := &fakeDouyinClient{publishTaskID: "T1"}
	uc, videoRepo, taskRepo, _ := newDouyinFixture(t, client)

	task, err := uc.Publish(context.Background(), 7, 5)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "T1", task.TaskID)
	assert.Equal(t, model.PublishStatusProcessing, task.Status)
	assert.Equal(t, int64(12), task.ID)
	assert.Equal(t, 1, taskRepo.created)
	assert.Equal(t, string(model.PublishStatusProcessing), videoRepo.video.PublishStatus)
}

// A phase failure aborts the sequence; no task record may exist afterwards.
func TestPublish_TransferFails_NoTaskRecord(t *testing.T) {
	client := &fakeDouyinClient{
		publishErr: &model.PublishError{Stage: model.StageTransfer, Err: errors.New("connection reset")},
	}
	uc, videoRepo, taskRepo, _ := newDouyinFixture(t, client)

	_, err := uc.Publish(context.Background(), 7, 5)
	var publishErr *model.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.Equal(t, model.StageTransfer, publishErr.Stage)
	assert.Zero(t, taskRepo.created, "failed publish must not leave a task behind")
	assert.Zero(t, videoRepo.updates)
}

func TestPublish_VideoNotOwned(t *testing.T) {
	client := &fakeDouyinClient{publishTaskID: "T1"}
	uc, _, taskRepo, _ := newDouyinFixture(t, client)

	_, err := uc.Publish(context.Background(), 99, 5)
	require.ErrorIs(t, err, ErrVideoNotFound)
	assert.Zero(t, taskRepo.created)
}

func TestCheckStatus_MapsAndReconciles(t *testing.T) {
	client := &fakeDouyinClient{taskStatus: &dto.DouyinTaskStatus{
		TaskID:   "T1",
		Status:   "PROCESSING",
		Progress: 40,
	}}
	uc, _, taskRepo, _ := newDouyinFixture(t, client)
	taskRepo.task = &model.PublishTask{ID: 12, VideoID: 5, UserID: 7, TaskID: "T1", Status: model.PublishStatusProcessing}

	report, err := uc.CheckStatus(context.Background(), 7, "T1")
	require.NoError(t, err)
	assert.Equal(t, model.PublishStatusProcessing, report.Status)
	assert.Equal(t, 40, report.Progress)
	require.NotNil(t, taskRepo.reconciled)
	assert.Equal(t, model.PublishStatusProcessing, taskRepo.reconciled.Status)
}

// An unrecognized platform status must reconcile as processing, never as a
// terminal state.
func TestCheckStatus_UnknownStatusStaysProcessing(t *testing.T) {
	client := &fakeDouyinClient{taskStatus: &dto.DouyinTaskStatus{TaskID: "T1", Status: "reviewing_v2"}}
	uc, _, taskRepo, _ := newDouyinFixture(t, client)
	taskRepo.task = &model.PublishTask{ID: 12, VideoID: 5, UserID: 7, TaskID: "T1", Status: model.PublishStatusProcessing}

	report, err := uc.CheckStatus(context.Background(), 7, "T1")
	require.NoError(t, err)
	assert.Equal(t, model.PublishStatusProcessing, report.Status)
	assert.False(t, report.Status.Terminal())
}

// A failed status query leaves local state untouched.
func TestCheckStatus_QueryFails_NoMutation(t *testing.T) {
	client := &fakeDouyinClient{statusErr: errors.New("gateway timeout")}
	uc, _, taskRepo, _ := newDouyinFixture(t, client)
	taskRepo.task = &model.PublishTask{ID: 12, VideoID: 5, UserID: 7, TaskID: "T1", Status: model.PublishStatusProcessing}

	_, err := uc.CheckStatus(context.Background(), 7, "T1")
	var queryErr *model.StatusQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "T1", queryErr.TaskID)
	assert.Nil(t, taskRepo.reconciled)
	assert.Equal(t, model.PublishStatusProcessing, taskRepo.task.Status)
}

// Terminal tasks answer from local state without a platform round trip.
func TestCheckStatus_TerminalTask_NoPlatformCall(t *testing.T) {
	client := &fakeDouyinClient{statusErr: errors.New("should not be called")}
	uc, _, taskRepo, _ := newDouyinFixture(t, client)
	taskRepo.task = &model.PublishTask{ID: 12, VideoID: 5, UserID: 7, TaskID: "T1", Status: model.PublishStatusSuccess, Progress: 100}

	report, err := uc.CheckStatus(context.Background(), 7, "T1")
	require.NoError(t, err)
	assert.Equal(t, model.PublishStatusSuccess, report.Status)
	assert.Nil(t, taskRepo.reconciled)
}

func TestListPlatformVideos_CacheAside(t *testing.T) {
	client := &fakeDouyinClient{videoList: &dto.DouyinVideoList{
		Cursor:  10,
		HasMore: true,
		List:    []dto.DouyinVideoItem{{ItemID: "item-1", Title: "First"}},
	}}
	uc, _, _, listCache := newDouyinFixture(t, client)

	req := &dto.DouyinVideoListRequest{Cursor: 0, Count: 20}
	first, err := uc.ListPlatformVideos(context.Background(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, 1, client.listCalls)
	assert.Equal(t, 1, listCache.sets)

	second, err := uc.ListPlatformVideos(context.Background(), 7, req)
	require.NoError(t, err)
	assert.Equal(t, 1, client.listCalls, "second page load must come from cache")
	assert.Equal(t, first, second)
}
