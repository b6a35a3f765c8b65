package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"douyin-manager/domain/model"
)

// PublishStatusEvent represents an SSE payload for publish status updates.
type PublishStatusEvent struct {
	Type         string `json:"type"`
	TaskID       string `json:"task_id"`
	VideoID      int64  `json:"video_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	DouyinURL    string `json:"douyin_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Hub maintains per-user subscribers listening for publish status events.
type Hub struct {
	mu    sync.RWMutex
	users map[int64]map[chan PublishStatusEvent]struct{}
}

func NewPublishHub() *Hub {
	return &Hub{users: make(map[int64]map[chan PublishStatusEvent]struct{})}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan PublishStatusEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	// Initial comment to keep connection open
	c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: publish_status\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(userID int64, ch chan PublishStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan PublishStatusEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID int64, ch chan PublishStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

// BroadcastPublishStatus broadcasts to all subscribers of the user who owns the task.
func (h *Hub) BroadcastPublishStatus(task *model.PublishTask, report *model.PublishStatusReport) {
	if task == nil || report == nil {
		return
	}
	evt := PublishStatusEvent{
		Type:     "publish_status",
		TaskID:   task.TaskID,
		VideoID:  task.VideoID,
		Status:   string(report.Status),
		Progress: report.Progress,
	}
	if report.DouyinURL != nil {
		evt.DouyinURL = *report.DouyinURL
	}
	if report.ErrorMessage != nil {
		evt.ErrorMessage = *report.ErrorMessage
	}
	h.mu.RLock()
	subs := h.users[task.UserID]
	for ch := range subs {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
	h.mu.RUnlock()
}
