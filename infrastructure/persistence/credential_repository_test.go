package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"social-publisher/domain/model"
)

func TestCredentialRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	refresh := "rft.example"
	expires := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO platform_credentials`)).
		WithArgs("tiktok", "act.example", refresh, expires, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cred := &model.PlatformCredential{
		Platform:     model.PlatformTikTok,
		AccessToken:  "act.example",
		RefreshToken: &refresh,
		ExpiresAt:    &expires,
	}
	require.NoError(t, repository.Upsert(context.Background(), cred))
	require.False(t, cred.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetByPlatform(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	now := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM platform_credentials WHERE platform=$1`)).
		WithArgs("tiktok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "platform", "access_token", "refresh_token", "expires_at", "created_at", "updated_at"}).
			AddRow(1, "tiktok", "act.example", nil, nil, now, now))

	cred, err := repository.GetByPlatform(context.Background(), model.PlatformTikTok)
	require.NoError(t, err)
	require.Equal(t, model.PlatformTikTok, cred.Platform)
	require.Equal(t, "act.example", cred.AccessToken)
	require.Nil(t, cred.RefreshToken)
	require.Nil(t, cred.ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetByPlatform_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, platform, access_token`)).
		WithArgs("tiktok").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repository.GetByPlatform(context.Background(), model.PlatformTikTok)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
