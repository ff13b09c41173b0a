package social

import (
	"context"
	"database/sql"
	"sync"

	"social-publisher/domain/model"
)

// recordingNotifier captures APICall invocations for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []apiCall
}

type apiCall struct {
	platform model.Platform
	endpoint string
	status   int
}

func (n *recordingNotifier) Success(model.Platform, int64, string) {}
func (n *recordingNotifier) Error(model.Platform, int64, string)   {}
func (n *recordingNotifier) ManualAction(model.Platform, int64)    {}

func (n *recordingNotifier) APICall(platform model.Platform, endpoint string, statusCode int, _ []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, apiCall{platform: platform, endpoint: endpoint, status: statusCode})
}

// stubCredentials serves a fixed credential, or sql.ErrNoRows when empty.
type stubCredentials struct {
	cred *model.PlatformCredential
}

func (s *stubCredentials) Upsert(_ context.Context, cred *model.PlatformCredential) error {
	s.cred = cred
	return nil
}

func (s *stubCredentials) GetByPlatform(context.Context, model.Platform) (*model.PlatformCredential, error) {
	if s.cred == nil {
		return nil, sql.ErrNoRows
	}
	return s.cred, nil
}

func strPtr(s string) *string { return &s }
