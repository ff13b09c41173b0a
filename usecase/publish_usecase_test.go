package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

type mockVariantRepo struct {
	mock.Mock
}

func (m *mockVariantRepo) Create(ctx context.Context, v *model.ContentVariant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVariantRepo) GetByID(ctx context.Context, id int64) (*model.ContentVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentVariant), args.Error(1)
}

func (m *mockVariantRepo) ListByContent(ctx context.Context, contentID int64) ([]*model.ContentVariant, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ContentVariant), args.Error(1)
}

func (m *mockVariantRepo) IncrementRetry(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVariantRepo) Update(ctx context.Context, v *model.ContentVariant) error {
	return m.Called(ctx, v).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, v *model.ContentVariant, media model.PublishMedia) model.PublishResult {
	args := m.Called(ctx, v, media)
	return args.Get(0).(model.PublishResult)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Success(platform model.Platform, contentID int64, externalID string) {
	m.Called(platform, contentID, externalID)
}

func (m *mockNotifier) Error(platform model.Platform, contentID int64, message string) {
	m.Called(platform, contentID, message)
}

func (m *mockNotifier) ManualAction(platform model.Platform, contentID int64) {
	m.Called(platform, contentID)
}

func (m *mockNotifier) APICall(platform model.Platform, endpoint string, statusCode int, body []byte) {
	m.Called(platform, endpoint, statusCode, body)
}

func fastRetrier() *Retrier {
	r := NewRetrier()
	r.sleep = func(time.Duration) {}
	return r
}

func fixedPolicies(attempts int) map[model.Platform]RetryPolicy {
	policies := map[model.Platform]RetryPolicy{}
	for _, p := range model.AllPlatforms() {
		policies[p] = RetryPolicy{MaxAttempts: attempts, InitialDelay: time.Second, BackoffFactor: 2}
	}
	return policies
}

func newTestPublishUsecase(variants *mockVariantRepo, adapter repository.IPublisher, notifier *mockNotifier, attempts int) IPublishUsecase {
	adapters := map[model.Platform]repository.IPublisher{}
	for _, p := range model.AllPlatforms() {
		adapters[p] = adapter
	}
	return NewPublishUsecase(variants, adapters, fixedPolicies(attempts), fastRetrier(), notifier)
}

func TestAttemptPublish_VariantNotFound(t *testing.T) {
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(99)).Return(nil, ErrVariantNotFound)

	u := newTestPublishUsecase(variants, new(mockPublisher), new(mockNotifier), 3)
	_, err := u.AttemptPublish(context.Background(), 99, model.PublishMedia{})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestAttemptPublish_WhatsAppWithoutRecipientLeavesVariantUntouched(t *testing.T) {
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(1)).
		Return(&model.ContentVariant{ID: 1, Platform: model.PlatformWhatsApp, State: model.StateDraft}, nil)

	adapter := new(mockPublisher)
	u := newTestPublishUsecase(variants, adapter, new(mockNotifier), 3)

	_, err := u.AttemptPublish(context.Background(), 1, model.PublishMedia{})
	assert.ErrorIs(t, err, ErrMissingRecipient)

	variants.AssertNotCalled(t, "IncrementRetry", mock.Anything, mock.Anything)
	variants.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	adapter.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttemptPublish_TikTokWithoutVideoRejected(t *testing.T) {
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(2)).
		Return(&model.ContentVariant{ID: 2, Platform: model.PlatformTikTok}, nil)

	u := newTestPublishUsecase(variants, new(mockPublisher), new(mockNotifier), 1)
	_, err := u.AttemptPublish(context.Background(), 2, model.PublishMedia{})
	assert.ErrorIs(t, err, ErrMissingMedia)
	variants.AssertNotCalled(t, "IncrementRetry", mock.Anything, mock.Anything)
}

func TestAttemptPublish_SuccessTransition(t *testing.T) {
	variant := &model.ContentVariant{
		ID: 5, ContentID: 3, Platform: model.PlatformFacebook, State: model.StateDraft,
		LastError: func() *string { s := "old failure"; return &s }(),
	}
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(5)).Return(variant, nil)
	variants.On("IncrementRetry", mock.Anything, int64(5)).Return(nil)
	variants.On("Update", mock.Anything, variant).Return(nil)

	adapter := new(mockPublisher)
	adapter.On("Publish", mock.Anything, variant, mock.Anything).
		Return(model.SuccessResult(model.PlatformFacebook, "fb-1", "https://www.facebook.com/fb-1"))

	notifier := new(mockNotifier)
	notifier.On("Success", model.PlatformFacebook, int64(3), "fb-1").Return()

	u := newTestPublishUsecase(variants, adapter, notifier, 3)
	result, err := u.AttemptPublish(context.Background(), 5, model.PublishMedia{})
	require.NoError(t, err)

	assert.Equal(t, model.PublishSuccess, result.Status)
	assert.Equal(t, model.StatePublished, variant.State)
	require.NotNil(t, variant.ExternalID)
	assert.Equal(t, "fb-1", *variant.ExternalID)
	require.NotNil(t, variant.PublishedURL)
	assert.Equal(t, "https://www.facebook.com/fb-1", *variant.PublishedURL)
	assert.NotNil(t, variant.PublishedAt)
	assert.Nil(t, variant.LastError, "success clears the last error")
	assert.Equal(t, 1, variant.RetryCount)
	notifier.AssertExpectations(t)
	variants.AssertExpectations(t)
}

func TestAttemptPublish_FailureExhaustsRetriesAndRecordsError(t *testing.T) {
	variant := &model.ContentVariant{ID: 6, ContentID: 3, Platform: model.PlatformLinkedIn, State: model.StateDraft}
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(6)).Return(variant, nil)
	variants.On("IncrementRetry", mock.Anything, int64(6)).Return(nil)
	variants.On("Update", mock.Anything, variant).Return(nil)

	adapter := new(mockPublisher)
	adapter.On("Publish", mock.Anything, variant, mock.Anything).
		Return(model.ErrorResult(model.PlatformLinkedIn, "upstream 500")).Times(3)

	notifier := new(mockNotifier)
	notifier.On("Error", model.PlatformLinkedIn, int64(3), "Error despues de 3 intentos: upstream 500").Return()

	u := newTestPublishUsecase(variants, adapter, notifier, 3)
	result, err := u.AttemptPublish(context.Background(), 6, model.PublishMedia{})
	require.NoError(t, err, "business failures are results, not errors")

	assert.Equal(t, model.PublishError, result.Status)
	assert.Equal(t, model.StateFailed, variant.State)
	require.NotNil(t, variant.LastError)
	assert.Equal(t, "Error despues de 3 intentos: upstream 500", *variant.LastError)
	adapter.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAttemptPublish_ManualActionTransition(t *testing.T) {
	variant := &model.ContentVariant{ID: 7, ContentID: 4, Platform: model.PlatformInstagram, State: model.StateDraft}
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(7)).Return(variant, nil)
	variants.On("IncrementRetry", mock.Anything, int64(7)).Return(nil)
	variants.On("Update", mock.Anything, variant).Return(nil)

	adapter := new(mockPublisher)
	adapter.On("Publish", mock.Anything, variant, mock.Anything).
		Return(model.ManualResult(model.PlatformInstagram, "Falta ID de Instagram")).Once()

	notifier := new(mockNotifier)
	notifier.On("ManualAction", model.PlatformInstagram, int64(4)).Return()

	u := newTestPublishUsecase(variants, adapter, notifier, 3)
	result, err := u.AttemptPublish(context.Background(), 7, model.PublishMedia{ImageURL: "https://x/a.jpg"})
	require.NoError(t, err)

	assert.Equal(t, model.PublishManual, result.Status)
	assert.Equal(t, model.StateManual, variant.State)
	assert.Nil(t, variant.LastError, "manual outcomes store no error")
	adapter.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAttemptPublish_CounterAdvancesOnFailure(t *testing.T) {
	variant := &model.ContentVariant{ID: 8, ContentID: 4, Platform: model.PlatformFacebook, RetryCount: 2}
	variants := new(mockVariantRepo)
	variants.On("GetByID", mock.Anything, int64(8)).Return(variant, nil)
	variants.On("IncrementRetry", mock.Anything, int64(8)).Return(nil)
	variants.On("Update", mock.Anything, variant).Return(nil)

	adapter := new(mockPublisher)
	adapter.On("Publish", mock.Anything, variant, mock.Anything).
		Return(model.ErrorResult(model.PlatformFacebook, "boom"))

	notifier := new(mockNotifier)
	notifier.On("Error", model.PlatformFacebook, mock.Anything, mock.Anything).Return()

	u := newTestPublishUsecase(variants, adapter, notifier, 1)
	_, err := u.AttemptPublish(context.Background(), 8, model.PublishMedia{})
	require.NoError(t, err)
	assert.Equal(t, 3, variant.RetryCount, "counter is cumulative across requests")
}
