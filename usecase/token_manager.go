package usecase

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"douyin-manager/domain/model"
	"douyin-manager/domain/repository"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/utils"
)

// ITokenManager hands out platform access tokens that are valid at the moment
// of the call, refreshing expired ones behind the scenes.
type ITokenManager interface {
	EnsureValidToken(ctx context.Context, userID int64) (string, error)
}

type TokenManager struct {
	credentialRepository repository.ICredential
	refresher            repository.ITokenRefresher
	group                singleflight.Group
}

func NewTokenManager(credentialRepository repository.ICredential, refresher repository.ITokenRefresher) ITokenManager {
	return &TokenManager{
		credentialRepository: credentialRepository,
		refresher:            refresher,
	}
}

// EnsureValidToken returns a currently valid access token for the user. A
// missing credential yields model.ErrNotAuthorized. A token that has not
// expired is returned as-is without touching the platform. An expired token
// triggers a refresh exchange; concurrent callers for the same user share a
// single exchange, and the new access token, refresh token and expiry are
// persisted in one statement before the new token is handed out. On refresh
// failure the stored credential is left untouched and a *model.RefreshError
// is returned.
func (m *TokenManager) EnsureValidToken(ctx context.Context, userID int64) (string, error) {
	cred, err := m.credentialRepository.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if cred == nil || cred.AccessToken == "" {
		return "", model.ErrNotAuthorized
	}
	if !cred.Expired(utils.GetCurrentTime()) {
		return cred.AccessToken, nil
	}

	token, err, _ := m.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		return m.refresh(ctx, userID)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *TokenManager) refresh(ctx context.Context, userID int64) (string, error) {
	// Re-read inside the flight: a refresh that completed while we waited
	// for the lock already persisted a fresh triple.
	cred, err := m.credentialRepository.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if cred == nil || cred.AccessToken == "" {
		return "", model.ErrNotAuthorized
	}
	now := utils.GetCurrentTime()
	if !cred.Expired(now) {
		return cred.AccessToken, nil
	}
	if cred.RefreshToken == "" {
		return "", &model.RefreshError{Err: model.ErrNotAuthorized}
	}

	grant, err := m.refresher.RefreshToken(ctx, cred.RefreshToken)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Token refresh exchange failed")
		return "", &model.RefreshError{Err: err}
	}

	expiresAt := now.Add(time.Duration(grant.ExpiresIn) * time.Second)
	if err := m.credentialRepository.UpdateTokens(ctx, userID, grant.AccessToken, grant.RefreshToken, expiresAt); err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Persisting refreshed tokens failed")
		return "", &model.RefreshError{Err: err}
	}
	logger.GetLogger().WithField("user_id", userID).Info("Platform token refreshed")
	return grant.AccessToken, nil
}
