package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douyin-manager/domain/model"
)

func TestHub_BroadcastReachesOwnerOnly(t *testing.T) {
	hub := NewPublishHub()

	ownerCh := make(chan PublishStatusEvent, 8)
	otherCh := make(chan PublishStatusEvent, 8)
	hub.addSubscriber(7, ownerCh)
	hub.addSubscriber(8, otherCh)

	url := "https://www.douyin.com/video/dy-123"
	task := &model.PublishTask{TaskID: "T1", VideoID: 5, UserID: 7}
	report := &model.PublishStatusReport{TaskID: "T1", Status: model.PublishStatusSuccess, Progress: 100, DouyinURL: &url}
	hub.BroadcastPublishStatus(task, report)

	select {
	case evt := <-ownerCh:
		assert.Equal(t, "publish_status", evt.Type)
		assert.Equal(t, "T1", evt.TaskID)
		assert.Equal(t, "success", evt.Status)
		assert.Equal(t, 100, evt.Progress)
		assert.Equal(t, url, evt.DouyinURL)
	default:
		t.Fatal("owner did not receive the event")
	}
	assert.Empty(t, otherCh)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewPublishHub()

	full := make(chan PublishStatusEvent) // unbuffered, nobody reading
	hub.addSubscriber(7, full)

	task := &model.PublishTask{TaskID: "T1", UserID: 7}
	report := &model.PublishStatusReport{TaskID: "T1", Status: model.PublishStatusProcessing}
	// Must return immediately even though the subscriber cannot take the event.
	hub.BroadcastPublishStatus(task, report)
}

func TestHub_RemoveSubscriberClosesChannel(t *testing.T) {
	hub := NewPublishHub()

	ch := make(chan PublishStatusEvent, 1)
	hub.addSubscriber(7, ch)
	hub.removeSubscriber(7, ch)

	_, open := <-ch
	require.False(t, open)

	// Broadcasting after removal is a no-op.
	hub.BroadcastPublishStatus(&model.PublishTask{TaskID: "T1", UserID: 7}, &model.PublishStatusReport{TaskID: "T1"})
}
