package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/entitysearch/internal/usecase/session"
)

// mockBackend answers every search with the same hits and records the requests.
type mockBackend struct {
	mu       sync.Mutex
	resp     result.Response
	err      error
	requests []request.Request
}

func (m *mockBackend) Search(_ context.Context, req request.Request) (result.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.resp, m.err
}

func (m *mockBackend) last() request.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

func beatlesResponse() result.Response {
	return result.Response{
		Items: []json.RawMessage{json.RawMessage(`{
			"id":"b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d","type":"Group","score":100,
			"name":"The Beatles","sort-name":"Beatles, The","country":"GB",
			"life-span":{"begin":"1960","end":"1970-04-10","ended":true}}`)},
		Count: 1,
	}
}

type testEnv struct {
	backend  *mockBackend
	sessions *sessionuc.Manager
	handler  http.Handler
}

func newTestEnv(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()
	catalog, err := field.Default()
	require.NoError(t, err)

	backend := &mockBackend{resp: beatlesResponse()}
	search := searchuc.New(backend, nil)
	manager := sessionuc.NewManager(0, 0)
	sessions := sessionuc.NewService(manager, catalog, search)
	health := healthuc.New(&mockPinger{}, nil)

	srv := NewServer(search, sessions, health, zap.NewNop())
	return &testEnv{
		backend:  backend,
		sessions: manager,
		handler:  NewRouter(srv, apiKeys, nil),
	}
}

func nopLogger() *zap.Logger { return zap.NewNop() }

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func (e *testEnv) createSession(t *testing.T, entity string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/sessions", `{"entity":"`+entity+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[sessionView](t, rr).ID
}

// sessionView mirrors the parts of a session snapshot the tests inspect.
type sessionView struct {
	ID    string `json:"id"`
	Query string `json:"query"`
	State struct {
		Entity     string `json:"entity"`
		Combinator string `json:"combinator"`
		Conditions []struct {
			ID      int    `json:"id"`
			Field   string `json:"field"`
			Negated bool   `json:"negated"`
		} `json:"conditions"`
	} `json:"state"`
	NegationEnabled bool `json:"negation_enabled"`
	Valid           bool `json:"valid"`
	QueryFailed     bool `json:"query_failed"`
}

type pageView struct {
	Query   string `json:"query"`
	Failed  bool   `json:"query_failed"`
	Pager   struct {
		CurrentPage  int `json:"current_page"`
		TotalEntries int `json:"total_entries"`
	} `json:"pager"`
	Results []struct {
		Score  int `json:"score"`
		Entity struct {
			GID  string `json:"gid"`
			Name string `json:"name"`
		} `json:"entity"`
	} `json:"results"`
}
