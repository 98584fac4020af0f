package proxy

import "errors"

// Errors the forwarder maps to gateway-generated responses. Anything else a
// client sees originates from the upstream and is mirrored verbatim.
var (
	// ErrUpstreamUnreachable is returned when the upstream cannot be
	// contacted at all. Mapped to 502 Bad Gateway.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrUpstreamTimeout is returned when the upstream does not answer
	// within the configured deadline. Mapped to 504 Gateway Timeout.
	ErrUpstreamTimeout = errors.New("upstream timed out")

	// ErrMalformedBody is returned when a request body cannot be decoded in
	// the representation its transform expects. Mapped to 400 Bad Request.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBodyTooLarge is returned when an upload exceeds the configured
	// limit. Mapped to 413 Request Entity Too Large, without contacting the
	// upstream.
	ErrBodyTooLarge = errors.New("request body too large")
)
