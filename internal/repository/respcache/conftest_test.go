package respcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
)

type mockBackend struct {
	resp  result.Response
	err   error
	calls int
}

func (m *mockBackend) Search(_ context.Context, _ request.Request) (result.Response, error) {
	m.calls++
	return m.resp, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
	deleted []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.lastTTL = ttl
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Del(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

func beatlesResponse() result.Response {
	return result.Response{
		Items: []json.RawMessage{json.RawMessage(`{"id":"b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d","name":"The Beatles","score":100}`)},
		Count: 1,
	}
}

func mustRequest(t *testing.T, query string, pageNum int) request.Request {
	t.Helper()
	r, err := request.New(kind.Artist, query, pageNum)
	if err != nil {
		t.Fatalf("request.New() error: %v", err)
	}
	return r
}

func newTestCachedBackend(t *testing.T, inner *mockBackend) (*CachedBackend, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, "ws", time.Hour, nil, zap.NewNop()), ms
}
