package douyin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"

	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"
)

// Config holds the open-platform application credentials.
type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	BaseURL      string
	Timeout      time.Duration
}

// Client talks to the Douyin open platform. It is a pure protocol driver: it
// holds no persistent state and every call carries a bounded timeout.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Douyin API client.
func NewClient(cfg Config) repository.IDouyin {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://open.douyin.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		// Open platform rate limits are per-app; stay well under them.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// envelope is the platform's top-level response shape. Aside from the fields
// the protocol needs, data is treated opaquely.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

type apiError struct {
	ErrorCode   int64  `json:"error_code"`
	Description string `json:"description"`
}

// AuthorizationURL builds the browser URL that starts the user consent flow.
func (c *Client) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_key", c.cfg.ClientKey)
	q.Set("response_type", "code")
	q.Set("scope", "user_info,video.list,video.upload")
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("state", state)
	return fmt.Sprintf("%s/platform/oauth/connect/?%s", c.cfg.BaseURL, q.Encode())
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*dto.DouyinTokenGrant, error) {
	form := url.Values{}
	form.Set("client_key", c.cfg.ClientKey)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	grant := &dto.DouyinTokenGrant{}
	if err := c.postForm(ctx, "/oauth/access_token/", nil, form, grant); err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}
	return grant, nil
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*dto.DouyinTokenGrant, error) {
	form := url.Values{}
	form.Set("client_key", c.cfg.ClientKey)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	grant := &dto.DouyinTokenGrant{}
	if err := c.postForm(ctx, "/oauth/refresh_token/", nil, form, grant); err != nil {
		return nil, fmt.Errorf("refresh exchange: %w", err)
	}
	return grant, nil
}

func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*dto.DouyinUserInfo, error) {
	info := &dto.DouyinUserInfo{}
	params := url.Values{}
	params.Set("access_token", accessToken)
	if err := c.get(ctx, "/oauth/userinfo/", params, info); err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	return info, nil
}

func (c *Client) ListVideos(ctx context.Context, accessToken string, req *dto.DouyinVideoListRequest) (*dto.DouyinVideoList, error) {
	if req == nil {
		req = &dto.DouyinVideoListRequest{Count: 20}
	}
	if req.Count == 0 {
		req.Count = 20
	}
	params, err := query.Values(req)
	if err != nil {
		return nil, err
	}
	params.Set("access_token", accessToken)

	list := &dto.DouyinVideoList{}
	if err := c.get(ctx, "/video/list/", params, list); err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	return list, nil
}

// Publish drives the three-phase upload protocol. Phases run strictly in
// order; the first failure aborts the sequence and is surfaced as a
// model.PublishError carrying the failing stage.
func (c *Client) Publish(ctx context.Context, accessToken string, payload io.Reader, title, description string) (string, error) {
	uploadID, err := c.initiateUpload(ctx, accessToken, title, description)
	if err != nil {
		return "", &model.PublishError{Stage: model.StageInitiate, Err: err}
	}
	if err := c.transferUpload(ctx, accessToken, uploadID, payload); err != nil {
		return "", &model.PublishError{Stage: model.StageTransfer, Err: err}
	}
	taskID, err := c.finalizeUpload(ctx, accessToken, uploadID)
	if err != nil {
		return "", &model.PublishError{Stage: model.StageFinalize, Err: err}
	}
	return taskID, nil
}

func (c *Client) initiateUpload(ctx context.Context, accessToken, title, description string) (string, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	form := url.Values{}
	form.Set("title", title)
	form.Set("description", description)

	var data struct {
		UploadID string `json:"upload_id"`
	}
	if err := c.postForm(ctx, "/video/upload/", params, form, &data); err != nil {
		return "", err
	}
	if data.UploadID == "" {
		return "", fmt.Errorf("no upload_id in response")
	}
	return data.UploadID, nil
}

func (c *Client) transferUpload(ctx context.Context, accessToken, uploadID string, payload io.Reader) error {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("upload_id", uploadID)
	// Single-part upload; the platform accepts whole files as part 1.
	params.Set("part_number", "1")

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("video", "video.mp4")
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, payload); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/video/part/upload/", params), pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var data json.RawMessage
	return c.do(req, &data)
}

func (c *Client) finalizeUpload(ctx context.Context, accessToken, uploadID string) (string, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	form := url.Values{}
	form.Set("upload_id", uploadID)

	var data struct {
		TaskID string `json:"task_id"`
	}
	if err := c.postForm(ctx, "/video/complete/", params, form, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", fmt.Errorf("no task_id in response")
	}
	return data.TaskID, nil
}

func (c *Client) QueryTaskStatus(ctx context.Context, accessToken, taskID string) (*dto.DouyinTaskStatus, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("task_id", taskID)

	status := &dto.DouyinTaskStatus{}
	if err := c.get(ctx, "/video/query/", params, status); err != nil {
		return nil, fmt.Errorf("task status: %w", err)
	}
	if status.TaskID == "" {
		status.TaskID = taskID
	}
	return status, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, params), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, params url.Values, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, params), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) > 0 {
		var apiErr apiError
		if json.Unmarshal(env.Data, &apiErr) == nil && apiErr.ErrorCode != 0 {
			return fmt.Errorf("platform error %d: %s", apiErr.ErrorCode, apiErr.Description)
		}
		if out != nil {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("decode data: %w", err)
			}
		}
		return nil
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
