package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyRequestHeadersWhitelist(t *testing.T) {
	src := http.Header{}
	src.Set("Authorization", "Bearer token123")
	src.Set("Content-Type", "application/json")
	src.Set("Accept", "application/json")
	src.Set("User-Agent", "taskdeck-ui/1.4")
	src.Set("Cookie", "session=abc")
	src.Set("X-Custom-Header", "nope")
	src.Set("Connection", "keep-alive")

	dst := http.Header{}
	copyRequestHeaders(dst, src)

	assert.Equal(t, "Bearer token123", dst.Get("Authorization"))
	assert.Equal(t, "application/json", dst.Get("Content-Type"))
	assert.Equal(t, "application/json", dst.Get("Accept"))
	assert.Equal(t, "taskdeck-ui/1.4", dst.Get("User-Agent"))

	// Non-whitelisted headers never cross the proxy.
	assert.Empty(t, dst.Get("Cookie"))
	assert.Empty(t, dst.Get("X-Custom-Header"))
	assert.Empty(t, dst.Get("Connection"))
}

func TestCopyResponseHeadersStripsHopByHop(t *testing.T) {
	src := http.Header{}
	src.Set("Content-Type", "application/json")
	src.Set("Etag", `"v7"`)
	src.Set("Transfer-Encoding", "chunked")
	src.Set("Keep-Alive", "timeout=5")
	src.Set("Connection", "X-Upstream-Internal")
	src.Set("X-Upstream-Internal", "secret")

	dst := http.Header{}
	copyResponseHeaders(dst, src)

	assert.Equal(t, "application/json", dst.Get("Content-Type"))
	assert.Equal(t, `"v7"`, dst.Get("Etag"))
	assert.Empty(t, dst.Get("Transfer-Encoding"))
	assert.Empty(t, dst.Get("Keep-Alive"))
	assert.Empty(t, dst.Get("Connection"))

	// Headers named by Connection are hop-by-hop too.
	assert.Empty(t, dst.Get("X-Upstream-Internal"))
}

func TestSetForwardingHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	r.RemoteAddr = "203.0.113.9:51234"

	dst := http.Header{}
	setForwardingHeaders(dst, r, "trace-1")

	assert.Equal(t, "203.0.113.9", dst.Get("X-Forwarded-For"))
	assert.Equal(t, "http", dst.Get("X-Forwarded-Proto"))
	assert.Equal(t, "trace-1", dst.Get("X-Request-Id"))
}

func TestSetForwardingHeadersAppendsChain(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	r.RemoteAddr = "203.0.113.9:51234"
	r.Header.Set("X-Forwarded-For", "198.51.100.4")

	dst := http.Header{}
	setForwardingHeaders(dst, r, "")

	assert.Equal(t, "198.51.100.4, 203.0.113.9", dst.Get("X-Forwarded-For"))
	assert.Empty(t, dst.Get("X-Request-Id"))
}
