package model

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized indicates no usable platform credential is on record; the
// user has to run the authorization flow before calling the platform.
var ErrNotAuthorized = errors.New("douyin account not authorized")

// RefreshError wraps a failed refresh-token exchange. The stored credential is
// left untouched, so the operation can be retried.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string { return fmt.Sprintf("token refresh failed: %v", e.Err) }
func (e *RefreshError) Unwrap() error { return e.Err }

// PublishStage identifies the phase of the three-step upload protocol that
// failed.
type PublishStage string

const (
	StageInitiate PublishStage = "initiate"
	StageTransfer PublishStage = "transfer"
	StageFinalize PublishStage = "finalize"
)

// PublishError wraps a failure in one phase of the publish protocol. The
// sequence is aborted at the failing stage and no local task record exists.
type PublishError struct {
	Stage PublishStage
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s failed: %v", e.Stage, e.Err)
}
func (e *PublishError) Unwrap() error { return e.Err }

// StatusQueryError wraps a failed task-status query. Local state is untouched;
// callers should retry later instead of treating it as a task failure.
type StatusQueryError struct {
	TaskID string
	Err    error
}

func (e *StatusQueryError) Error() string {
	return fmt.Sprintf("status query for task %s failed: %v", e.TaskID, e.Err)
}
func (e *StatusQueryError) Unwrap() error { return e.Err }
