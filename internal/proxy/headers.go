package proxy

import (
	"net"
	"net/http"
	"strings"
)

// forwardedRequestHeaders is the whitelist of end-to-end headers copied from
// the inbound request to the upstream request. Everything else — cookies,
// custom headers, anything hop-by-hop — stays behind.
var forwardedRequestHeaders = []string{
	"Authorization",
	"Content-Type",
	"Accept",
	"Accept-Language",
	"User-Agent",
	"If-None-Match",
	"If-Modified-Since",
}

// hopByHopHeaders are connection-scoped per RFC 7230 section 6.1 and must
// not traverse the proxy in either direction.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// copyRequestHeaders applies the whitelist to the upstream request.
func copyRequestHeaders(dst http.Header, src http.Header) {
	for _, name := range forwardedRequestHeaders {
		for _, value := range src.Values(name) {
			dst.Add(name, value)
		}
	}
}

// copyResponseHeaders mirrors the upstream response headers to the client,
// dropping hop-by-hop headers and any headers they name.
func copyResponseHeaders(dst http.Header, src http.Header) {
	dropped := make(map[string]bool, len(hopByHopHeaders))
	for _, name := range hopByHopHeaders {
		dropped[name] = true
	}

	// A Connection header can name additional hop-by-hop headers.
	for _, value := range src.Values("Connection") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				dropped[http.CanonicalHeaderKey(name)] = true
			}
		}
	}

	for name, values := range src {
		if dropped[http.CanonicalHeaderKey(name)] {
			continue
		}
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}

// setForwardingHeaders records the original caller on the upstream request.
func setForwardingHeaders(dst http.Header, r *http.Request, traceID string) {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
			host = prior + ", " + host
		}
		dst.Set("X-Forwarded-For", host)
	}

	proto := "http"
	if r.TLS != nil {
		proto = "https"
	}
	dst.Set("X-Forwarded-Proto", proto)

	if traceID != "" {
		dst.Set("X-Request-Id", traceID)
	}
}
