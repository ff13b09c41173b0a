package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IVerifierStore holds PKCE code verifiers between the authorization redirect
// and the provider callback, keyed by the anti-forgery state token. Take is
// one-shot: a verifier can be consumed exactly once.
type IVerifierStore interface {
	Put(ctx context.Context, state, verifier string) error
	Take(ctx context.Context, state string) (string, bool)
}

const verifierTTL = 10 * time.Minute

// RedisVerifierStore keeps verifiers in redis so callbacks survive restarts
// and multiple instances.
type RedisVerifierStore struct {
	client *redis.Client
	prefix string
}

func NewRedisVerifierStore(client *redis.Client) *RedisVerifierStore {
	return &RedisVerifierStore{client: client, prefix: "pkce:verifier:"}
}

func (s *RedisVerifierStore) Put(ctx context.Context, state, verifier string) error {
	return s.client.Set(ctx, s.prefix+state, verifier, verifierTTL).Err()
}

func (s *RedisVerifierStore) Take(ctx context.Context, state string) (string, bool) {
	verifier, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		return "", false
	}
	return verifier, true
}

// MemoryVerifierStore is the fallback when redis is not configured.
type MemoryVerifierStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	verifier string
	expires  time.Time
}

func NewMemoryVerifierStore() *MemoryVerifierStore {
	return &MemoryVerifierStore{entries: map[string]memoryEntry{}}
}

func (s *MemoryVerifierStore) Put(_ context.Context, state, verifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = memoryEntry{verifier: verifier, expires: time.Now().Add(verifierTTL)}
	return nil
}

func (s *MemoryVerifierStore) Take(_ context.Context, state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[state]
	if !ok {
		return "", false
	}
	delete(s.entries, state)
	if time.Now().After(e.expires) {
		return "", false
	}
	return e.verifier, true
}
