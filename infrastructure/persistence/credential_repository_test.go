package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"douyin-manager/domain/model"
)

func TestCredentialRepository_GetByUserID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, open_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at FROM platform_credentials WHERE user_id=$1`)).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	cred, err := repository.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, cred)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := now.Add(2 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, open_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at FROM platform_credentials WHERE user_id=$1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "open_id", "access_token", "refresh_token", "expires_at", "scopes", "created_at", "updated_at"}).
			AddRow(3, 7, "douyin", "open-1", "A1", "R1", expiresAt, "user_info,video.list,video.upload", now, now))

	cred, err := repository.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "A1", cred.AccessToken)
	require.Equal(t, "R1", cred.RefreshToken)
	require.NotNil(t, cred.ExpiresAt)
	require.Equal(t, expiresAt, *cred.ExpiresAt)
	require.False(t, cred.Expired(now))
	require.True(t, cred.Expired(expiresAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_UpdateTokens_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	expiresAt := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE platform_credentials SET access_token=$1, refresh_token=$2, expires_at=$3, updated_at=$4 WHERE user_id=$5`)).
		WithArgs("A2", "R2", expiresAt, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.UpdateTokens(context.Background(), 7, "A2", "R2", expiresAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_UpdateTokens_MissingCredential(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE platform_credentials SET access_token=$1, refresh_token=$2, expires_at=$3, updated_at=$4 WHERE user_id=$5`)).
		WithArgs("A2", "R2", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.UpdateTokens(context.Background(), 99, "A2", "R2", time.Now())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	expiresAt := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	openID := "open-1"
	mock.ExpectExec("INSERT INTO platform_credentials").
		WithArgs(int64(7), "douyin", "open-1", "A1", "R1", expiresAt, "user_info,video.list,video.upload", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repository.Upsert(context.Background(), &model.PlatformCredential{
		UserID:       7,
		Platform:     "douyin",
		OpenID:       &openID,
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    &expiresAt,
		Scopes:       "user_info,video.list,video.upload",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
