package persistence

import (
	"context"
	"database/sql"
	"time"

	"douyin-manager/domain/model"
)

// CredentialRepository persists per-user Douyin OAuth credentials.
type CredentialRepository struct{ db *sql.DB }

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) GetByUserID(ctx context.Context, userID int64) (*model.PlatformCredential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, platform, open_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at FROM platform_credentials WHERE user_id=$1`, userID)
	cred := &model.PlatformCredential{}
	var openID sql.NullString
	var exp sql.NullTime
	if err := row.Scan(&cred.ID, &cred.UserID, &cred.Platform, &openID, &cred.AccessToken, &cred.RefreshToken, &exp, &cred.Scopes, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if openID.Valid {
		v := openID.String
		cred.OpenID = &v
	}
	if exp.Valid {
		cred.ExpiresAt = &exp.Time
	}
	return cred, nil
}

func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.PlatformCredential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	q := `INSERT INTO platform_credentials (user_id, platform, open_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		  ON CONFLICT (user_id) DO UPDATE SET
			platform=EXCLUDED.platform,
			open_id=EXCLUDED.open_id,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			scopes=EXCLUDED.scopes,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, cred.UserID, cred.Platform, cred.OpenID, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, cred.Scopes, cred.CreatedAt, cred.UpdatedAt)
	return err
}

// UpdateTokens replaces the token triple in one statement so a concurrent
// reader never observes a half-refreshed credential.
func (r *CredentialRepository) UpdateTokens(ctx context.Context, userID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE platform_credentials SET access_token=$1, refresh_token=$2, expires_at=$3, updated_at=$4 WHERE user_id=$5`,
		accessToken, refreshToken, expiresAt, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
