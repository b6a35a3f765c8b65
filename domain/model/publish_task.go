package model

import (
	"strings"
	"time"
)

// PublishStatus is the local vocabulary for publish task state.
type PublishStatus string

const (
	PublishStatusPending    PublishStatus = "pending"
	PublishStatusProcessing PublishStatus = "processing"
	PublishStatusSuccess    PublishStatus = "success"
	PublishStatusFailed     PublishStatus = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s PublishStatus) Terminal() bool {
	return s == PublishStatusSuccess || s == PublishStatusFailed
}

// PublishStatusFromExternal maps the platform's status vocabulary onto the
// local enum. Unrecognized values map to processing so that an unknown status
// can never signal completion prematurely.
func PublishStatusFromExternal(external string) PublishStatus {
	switch strings.ToLower(strings.TrimSpace(external)) {
	case "pending", "wait", "waiting":
		return PublishStatusPending
	case "processing", "in_progress", "publishing", "uploading":
		return PublishStatusProcessing
	case "success", "succeed", "publish_complete", "published":
		return PublishStatusSuccess
	case "failed", "fail", "error":
		return PublishStatusFailed
	default:
		return PublishStatusProcessing
	}
}

// PublishTask tracks one upload-and-publish attempt against the platform.
// Created by the publish flow with status processing; only the status tracker
// moves it afterwards.
type PublishTask struct {
	ID            int64         `json:"id"`
	VideoID       int64         `json:"video_id"`
	UserID        int64         `json:"user_id"`
	TaskID        string        `json:"task_id"`
	Status        PublishStatus `json:"status"`
	Progress      int           `json:"progress"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	DouyinVideoID *string       `json:"douyin_video_id,omitempty"`
	DouyinURL     *string       `json:"douyin_url,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PublishStatusReport is the reconciled view of one task after a status query.
type PublishStatusReport struct {
	TaskID        string        `json:"task_id"`
	Status        PublishStatus `json:"status"`
	Progress      int           `json:"progress"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	DouyinVideoID *string       `json:"douyin_video_id,omitempty"`
	DouyinURL     *string       `json:"douyin_url,omitempty"`
}
