// Package proxy forwards API requests to the upstream task service. The
// gateway is a pass-through: it rewrites the path prefix, forwards a
// whitelist of headers, reshapes a handful of content-type encodings
// (JSON, multipart, URL-encoded), and mirrors the upstream's status code
// and body back to the caller. All authority and persistence stay with the
// upstream.
package proxy
