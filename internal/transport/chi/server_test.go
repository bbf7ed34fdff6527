package chi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[HealthResponse](t, rr)
	assert.Equal(t, "ok", string(body.Status))
	assert.Equal(t, "ok", string(body.Checks["backend"]))
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/catalog/artist", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cat := decode[CatalogResponse](t, rr)
	assert.Equal(t, kind.Artist, cat.Entity)
	require.NotEmpty(t, cat.Fields)
	assert.Equal(t, "artist", cat.Fields[0].Type)
	assert.Nil(t, cat.Fields[0].Options)
	for _, f := range cat.Fields {
		if f.Type == "gender" {
			require.NotNil(t, f.Options)
			assert.NotEmpty(t, f.Options.All())
		}
	}

	rr = env.do(t, http.MethodGet, "/api/v1/catalog/url", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeUnknownEntity, decode[ErrorResponse](t, rr).Code)
}

func TestSearch_Stateless(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/search/artist?query=artist%3ABeatles&page=2", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	p := decode[pageView](t, rr)
	assert.Equal(t, "artist:Beatles", p.Query)
	assert.Equal(t, 2, p.Pager.CurrentPage)
	require.Len(t, p.Results, 1)
	assert.Equal(t, "The Beatles", p.Results[0].Entity.Name)

	req := env.backend.last()
	assert.Equal(t, kind.Artist, req.Kind())
	assert.Equal(t, 25, req.Offset())
}

func TestSearch_DefaultsToFirstPage(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/v1/search/release-group", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, env.backend.last().Offset())
	assert.Equal(t, "", env.backend.last().Query())
}

func TestSearch_BadPage(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"page=abc", "page=0", "page=400000000000000000", "page=99999999999999999999"} {
		rr := env.do(t, http.MethodGet, "/api/v1/search/artist?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestSearch_LastAllowedPage(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/search/artist?page=%d", page.MaxPage), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Positive(t, env.backend.last().Offset())
}

func TestSearch_BackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"status", domain.NewBackendStatus(500, "boom"), http.StatusBadGateway, CodeBackendError},
		{"rate limited", errors.Join(domain.ErrRateLimited, domain.NewBackendStatus(503, "")), http.StatusTooManyRequests, CodeRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.err = tt.err
			rr := env.do(t, http.MethodGet, "/api/v1/search/artist?query=x", "")
			assert.Equal(t, tt.status, rr.Code)
			body := decode[ErrorResponse](t, rr)
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Message, "boom")
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "artist")

	rr := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", `{"type":"add_condition","field":"artist"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", `{"type":"set_value","id":1,"value":"Beatles"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", `{"type":"add_condition","field":"type"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	v := decode[sessionView](t, rr)
	assert.True(t, v.NegationEnabled)
	assert.Equal(t, `artist:Beatles AND type:"person"`, v.Query)
	require.Len(t, v.State.Conditions, 3)
	assert.Equal(t, 0, v.State.Conditions[2].ID)

	rr = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search?page=1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	p := decode[pageView](t, rr)
	assert.False(t, p.Failed)
	require.Len(t, p.Results, 1)
	assert.Equal(t, `artist:Beatles AND type:"person"`, env.backend.last().Query())

	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/results", "")
	require.Equal(t, http.StatusOK, rr.Code)

	gid := p.Results[0].Entity.GID
	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/entities/"+gid, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/entities/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeEntityNotFound, decode[ErrorResponse](t, rr).Code)

	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeSessionNotFound, decode[ErrorResponse](t, rr).Code)
}

func TestSessionSearch_BackendFailureIsFlagged(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "work")
	env.backend.err = domain.NewBackendStatus(500, "")

	rr := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/search", "")
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[pageView](t, rr)
	assert.True(t, p.Failed)
	assert.Empty(t, p.Results)

	rr = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.True(t, decode[sessionView](t, rr).QueryFailed)
}

func TestApplyEvent_Errors(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "artist")

	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed", `{`, CodeInvalidEvent},
		{"unknown type", `{"type":"explode"}`, CodeInvalidEvent},
		{"unknown field", `{"type":"add_condition","field":"bogus"}`, CodeUnknownField},
		{"placeholder", `{"type":"remove_condition","id":0}`, CodeInvalidEvent},
		{"negation disabled", `{"type":"set_negation","id":0,"negated":true}`, CodeInvalidEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rr).Code)
		})
	}

	rr := env.do(t, http.MethodPost, "/api/v1/sessions/nope/events", `{"type":"add_condition","field":"artist"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateSession_Errors(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/sessions", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, http.MethodPost, "/api/v1/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, http.MethodPost, "/api/v1/sessions", `{"entity":"url"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, env.sessions.Len())
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, rr).Code)
}

func TestRouter_Auth(t *testing.T) {
	env := newTestEnv(t, "secret")
	rr := env.do(t, http.MethodGet, "/api/v1/catalog/artist", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RequestID(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(nopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	env := &testEnv{handler: h}
	rr := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, CodeInternalError, decode[ErrorResponse](t, rr).Code)
}
