package repository

import (
	"context"
	"time"

	"douyin-manager/domain/model"
)

// ICredential defines persistence for per-user platform credentials.
// UpdateTokens writes access token, refresh token and expiry as a single
// statement so that readers can never observe a partially refreshed triple.
type ICredential interface {
	GetByUserID(ctx context.Context, userID int64) (*model.PlatformCredential, error)
	Upsert(ctx context.Context, cred *model.PlatformCredential) error
	UpdateTokens(ctx context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error
}
