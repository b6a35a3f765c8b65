package repository

import (
	"context"
	"io"

	"douyin-manager/domain/dto"
)

// IDouyin is the outbound contract against the Douyin open platform. Publish
// drives the three-phase upload protocol (initiate, transfer, finalize) and
// returns the external task identifier; phase failures surface as
// model.PublishError with the failing stage. The implementation holds no
// persistent state.
type IDouyin interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*dto.DouyinTokenGrant, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.DouyinTokenGrant, error)
	GetUserInfo(ctx context.Context, accessToken string) (*dto.DouyinUserInfo, error)
	ListVideos(ctx context.Context, accessToken string, req *dto.DouyinVideoListRequest) (*dto.DouyinVideoList, error)
	Publish(ctx context.Context, accessToken string, payload io.Reader, title, description string) (string, error)
	QueryTaskStatus(ctx context.Context, accessToken, taskID string) (*dto.DouyinTaskStatus, error)
}

// ITokenRefresher is the subset of IDouyin the token lifecycle manager needs.
type ITokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*dto.DouyinTokenGrant, error)
}
