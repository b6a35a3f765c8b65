package douyin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		ClientKey:    "ck",
		ClientSecret: "cs",
		RedirectURI:  "http://localhost/callback",
		BaseURL:      server.URL,
	}).(*Client)
	return client, server
}

func TestAuthorizationURL(t *testing.T) {
	client := NewClient(Config{ClientKey: "ck", RedirectURI: "http://localhost/callback"})
	u := client.AuthorizationURL("xyz")
	assert.Contains(t, u, "https://open.douyin.com/platform/oauth/connect/")
	assert.Contains(t, u, "client_key=ck")
	assert.Contains(t, u, "state=xyz")
	assert.Contains(t, u, "scope=user_info%2Cvideo.list%2Cvideo.upload")
}

func TestExchangeCode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/access_token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		_, _ = io.WriteString(w, `{"data":{"access_token":"A1","refresh_token":"R1","expires_in":7200,"open_id":"open-1"}}`)
	}))

	grant, err := client.ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "A1", grant.AccessToken)
	assert.Equal(t, "R1", grant.RefreshToken)
	assert.Equal(t, int64(7200), grant.ExpiresIn)
	assert.Equal(t, "open-1", grant.OpenID)
}

func TestRefreshToken_PlatformError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"error_code":10010,"description":"refresh token expired"}}`)
	}))

	_, err := client.RefreshToken(context.Background(), "R1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10010")
}

// The happy path walks initiate, transfer and finalize in order and returns
// the platform task id from the last phase.
func TestPublish_ThreePhases(t *testing.T) {
	var phases []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phases = append(phases, r.URL.Path)
		switch r.URL.Path {
		case "/video/upload/":
			_, _ = io.WriteString(w, `{"data":{"upload_id":"U1"}}`)
		case "/video/part/upload/":
			assert.Equal(t, "U1", r.URL.Query().Get("upload_id"))
			assert.Equal(t, "1", r.URL.Query().Get("part_number"))
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, _, err := r.FormFile("video")
			require.NoError(t, err)
			payload, _ := io.ReadAll(file)
			assert.Equal(t, "fake mp4 payload", string(payload))
			_, _ = io.WriteString(w, `{"data":{"error_code":0}}`)
		case "/video/complete/":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "U1", r.PostForm.Get("upload_id"))
			_, _ = io.WriteString(w, `{"data":{"task_id":"T1"}}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	taskID, err := client.Publish(context.Background(), "A1", strings.NewReader("fake mp4 payload"), "title", "desc")
	require.NoError(t, err)
	assert.Equal(t, "T1", taskID)
	assert.Equal(t, []string{"/video/upload/", "/video/part/upload/", "/video/complete/"}, phases)
}

// A transfer failure aborts before finalize and reports the failing stage.
func TestPublish_TransferFailure_AbortsSequence(t *testing.T) {
	var phases []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phases = append(phases, r.URL.Path)
		switch r.URL.Path {
		case "/video/upload/":
			_, _ = io.WriteString(w, `{"data":{"upload_id":"U1"}}`)
		case "/video/part/upload/":
			w.WriteHeader(http.StatusBadGateway)
		default:
			t.Fatalf("finalize must not run after a failed transfer, got %s", r.URL.Path)
		}
	}))

	_, err := client.Publish(context.Background(), "A1", strings.NewReader("payload"), "title", "desc")
	var publishErr *model.PublishError
	require.True(t, errors.As(err, &publishErr))
	assert.Equal(t, model.StageTransfer, publishErr.Stage)
	assert.Equal(t, []string{"/video/upload/", "/video/part/upload/"}, phases)
}

func TestPublish_InitiateFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"error_code":2100,"description":"quota exceeded"}}`)
	}))

	_, err := client.Publish(context.Background(), "A1", strings.NewReader("payload"), "title", "desc")
	var publishErr *model.PublishError
	require.True(t, errors.As(err, &publishErr))
	assert.Equal(t, model.StageInitiate, publishErr.Stage)
}

func TestQueryTaskStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video/query/", r.URL.Path)
		assert.Equal(t, "T1", r.URL.Query().Get("task_id"))
		assert.Equal(t, "A1", r.URL.Query().Get("access_token"))
		_, _ = io.WriteString(w, `{"data":{"task_id":"T1","status":"processing","progress":40}}`)
	}))

	status, err := client.QueryTaskStatus(context.Background(), "A1", "T1")
	require.NoError(t, err)
	assert.Equal(t, "T1", status.TaskID)
	assert.Equal(t, "processing", status.Status)
	assert.Equal(t, 40, status.Progress)
}

func TestListVideos_QueryEncoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video/list/", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("cursor"))
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		_, _ = io.WriteString(w, `{"data":{"cursor":30,"has_more":true,"list":[{"item_id":"item-1","title":"First"}]}}`)
	}))

	list, err := client.ListVideos(context.Background(), "A1", &dto.DouyinVideoListRequest{Cursor: 20, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(30), list.Cursor)
	assert.True(t, list.HasMore)
	require.Len(t, list.List, 1)
	assert.Equal(t, "item-1", list.List[0].ItemID)
}
