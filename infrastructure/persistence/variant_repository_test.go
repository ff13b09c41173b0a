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

func TestVariantRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVariantRepository(db)

	createdAt := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	cols := []string{"id", "content_id", "platform", "adapted_text", "hashtags", "media_url", "state",
		"external_id", "published_url", "retry_count", "error_log", "last_error", "published_at", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+variantColumns+` FROM content_variants WHERE id=$1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, 3, "facebook", "Nuevo lanzamiento", `["#Tech","#Innovacion"]`, nil, "draft",
				nil, nil, 2, nil, nil, nil, createdAt, createdAt))

	v, err := repository.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), v.ID)
	require.Equal(t, int64(3), v.ContentID)
	require.Equal(t, model.PlatformFacebook, v.Platform)
	require.Equal(t, []string{"#Tech", "#Innovacion"}, v.Hashtags)
	require.Equal(t, model.StateDraft, v.State)
	require.Equal(t, 2, v.RetryCount)
	require.Nil(t, v.MediaURL)
	require.Nil(t, v.PublishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_Create_AssignsIDAndDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVariantRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO content_variants`)).
		WithArgs(int64(3), "linkedin", "Texto profesional", `["#Negocios"]`, nil, "draft", 0,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	v := &model.ContentVariant{
		ContentID:   3,
		Platform:    model.PlatformLinkedIn,
		AdaptedText: "Texto profesional",
		Hashtags:    []string{"#Negocios"},
	}
	require.NoError(t, repository.Create(context.Background(), v))
	require.Equal(t, int64(42), v.ID)
	require.Equal(t, model.StateDraft, v.State)
	require.False(t, v.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_IncrementRetry_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVariantRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE content_variants SET retry_count = retry_count + 1`)).
		WithArgs(int64(99), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repository.IncrementRetry(context.Background(), 99)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_Update_PersistsTransitionFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewVariantRepository(db)

	externalID := "17895695668004550"
	publishedURL := "https://www.instagram.com/p/17895695668004550/"
	publishedAt := time.Date(2025, 11, 2, 11, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE content_variants SET state=$2`)).
		WithArgs(int64(7), "published", externalID, publishedURL, nil, nil, publishedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v := &model.ContentVariant{
		ID:           7,
		State:        model.StatePublished,
		ExternalID:   &externalID,
		PublishedURL: &publishedURL,
		PublishedAt:  &publishedAt,
	}
	require.NoError(t, repository.Update(context.Background(), v))
	require.NoError(t, mock.ExpectationsWereMet())
}
