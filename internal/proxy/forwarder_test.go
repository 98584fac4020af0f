package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/config"
)

func newTestForwarder(t *testing.T, upstreamURL string) *Forwarder {
	t.Helper()
	f, err := New(config.UpstreamConfig{
		URL:            upstreamURL,
		TimeoutSec:     5,
		MaxUploadBytes: 1 << 20,
	}, slog.Default())
	require.NoError(t, err)
	return f
}

func TestForwardMirrorsUpstream(t *testing.T) {
	var seen struct {
		method string
		path   string
		query  string
		header http.Header
		body   string
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen.method = r.Method
		seen.path = r.URL.Path
		seen.query = r.URL.RawQuery
		seen.header = r.Header.Clone()
		seen.body = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Etag", `"v3"`)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer upstream.Close()

	f := newTestForwarder(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks?assignee=7", strings.NewReader(`{"name":"new task"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Cookie", "session=abc")
	w := httptest.NewRecorder()

	f.Forward(w, req, Rule{StripPrefix: "/api"})

	// Upstream saw the rewritten request.
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "/tasks", seen.path)
	assert.Equal(t, "assignee=7", seen.query)
	assert.Equal(t, `{"name":"new task"}`, seen.body)
	assert.Equal(t, "Bearer tok", seen.header.Get("Authorization"))
	assert.Empty(t, seen.header.Get("Cookie"), "cookies must not reach the upstream")
	assert.NotEmpty(t, seen.header.Get("X-Forwarded-For"))

	// Client saw the mirrored response.
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `"v3"`, w.Header().Get("Etag"))
	assert.Equal(t, `{"id":"abc"}`, w.Body.String())
}

func TestForwardMirrorsUpstreamErrors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
	}))
	defer upstream.Close()

	f := newTestForwarder(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil)
	w := httptest.NewRecorder()

	f.Forward(w, req, Rule{StripPrefix: "/api"})

	// Upstream 4xx/5xx pass through untouched, not re-mapped.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "task not found")
}

func TestForwardAppliesBasePath(t *testing.T) {
	var seenPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
	}))
	defer upstream.Close()

	f, err := New(config.UpstreamConfig{URL: upstream.URL, BasePath: "/v2", TimeoutSec: 5}, slog.Default())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	f.Forward(httptest.NewRecorder(), req, Rule{StripPrefix: "/api"})

	assert.Equal(t, "/v2/users", seenPath)
}

func TestForwardJSONToFormRule(t *testing.T) {
	var seenContentType, seenBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenContentType = r.Header.Get("Content-Type")
		seenBody = string(body)
	}))
	defer upstream.Close()

	f := newTestForwarder(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"casey","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	f.Forward(httptest.NewRecorder(), req, Rule{StripPrefix: "/api", Transform: JSONToForm})

	assert.Equal(t, "application/x-www-form-urlencoded", seenContentType)
	assert.Equal(t, "password=pw&username=casey", seenBody)
}

func TestForwardUnreachableUpstreamIs502(t *testing.T) {
	// A closed server: the port refuses connections.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	f := newTestForwarder(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	f.Forward(w, req, Rule{StripPrefix: "/api"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), upstream.URL, "the upstream address must not leak to clients")
}

func TestForwardSlowUpstreamIs504(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		upstream.Close()
	}()

	f := newTestForwarder(t, upstream.URL)
	f.client.Timeout = 50 * time.Millisecond

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	f.Forward(w, req, Rule{StripPrefix: "/api"})

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestForwardOversizedUploadRejectedLocally(t *testing.T) {
	var upstreamCalled bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	f, err := New(config.UpstreamConfig{URL: upstream.URL, TimeoutSec: 5, MaxUploadBytes: 16}, slog.Default())
	require.NoError(t, err)

	body, contentType := buildMultipart(t, "file", "big.bin", strings.Repeat("z", 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	f.Forward(w, req, Rule{StripPrefix: "/api", Transform: MultipartRewrite})

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, upstreamCalled, "oversized uploads are rejected before contacting the upstream")
}

func TestPing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	f := newTestForwarder(t, upstream.URL)

	assert.NoError(t, f.Ping(context.Background()))

	upstream.Close()
	assert.ErrorIs(t, f.Ping(context.Background()), ErrUpstreamUnreachable)
}

func TestNewRejectsBadUpstreamURL(t *testing.T) {
	_, err := New(config.UpstreamConfig{URL: "ftp://files.example.com"}, slog.Default())
	assert.Error(t, err)
}
