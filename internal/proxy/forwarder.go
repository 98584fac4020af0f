package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskdeck/taskdeck/internal/api/shared"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/platform/logger"
	"github.com/taskdeck/taskdeck/internal/redact"
)

// Rule describes how one route family is forwarded: which local prefix to
// strip, which body transform to apply, and any multipart field renames.
type Rule struct {
	StripPrefix  string
	Transform    Transform
	FieldRenames map[string]string
}

// Forwarder sends requests to the upstream service and mirrors the
// responses. It holds no request state; every inbound request produces at
// most one upstream request.
type Forwarder struct {
	upstream       *url.URL
	basePath       string
	client         *http.Client
	logger         *slog.Logger
	maxUploadBytes int64
}

// New creates a Forwarder for the configured upstream.
func New(cfg config.UpstreamConfig, log *slog.Logger) (*Forwarder, error) {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Forwarder")
	}

	upstream, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream URL: %w", err)
	}
	if upstream.Scheme != "http" && upstream.Scheme != "https" {
		return nil, fmt.Errorf("upstream URL must be http or https")
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	return &Forwarder{
		upstream:       upstream,
		basePath:       cfg.BasePath,
		client:         &http.Client{Timeout: timeout},
		logger:         log.With(slog.String("component", "forwarder")),
		maxUploadBytes: cfg.MaxUploadBytes,
	}, nil
}

// Handler returns an http.HandlerFunc forwarding requests under the given rule.
func (f *Forwarder) Handler(rule Rule) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.Forward(w, r, rule)
	}
}

// Forward sends the request upstream under the given rule and mirrors the
// response. Gateway-generated errors (bad body, unreachable upstream) are
// the only responses not originating from the upstream.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, rule Rule) {
	log := logger.FromContextOrDefault(r.Context(), f.logger)

	body, err := applyTransform(r, rule.Transform, rule.FieldRenames, f.maxUploadBytes)
	if err != nil {
		f.respondTransformError(w, r, err)
		return
	}

	target := *f.upstream
	target.Path = rewritePath(r.URL.Path, rule.StripPrefix, f.basePath)
	target.RawQuery = r.URL.RawQuery

	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body.reader)
	if err != nil {
		log.Error("failed to build upstream request", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Gateway error")
		return
	}

	copyRequestHeaders(upstreamReq.Header, r.Header)
	setForwardingHeaders(upstreamReq.Header, r, shared.GetTraceID(r.Context()))
	if body.contentType != "" {
		upstreamReq.Header.Set("Content-Type", body.contentType)
	} else {
		upstreamReq.Header.Del("Content-Type")
	}
	if body.contentLength >= 0 {
		upstreamReq.ContentLength = body.contentLength
	}

	started := time.Now()
	resp, err := f.client.Do(upstreamReq)
	if err != nil {
		f.respondUpstreamError(w, r, err)
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug("failed to close upstream response body", slog.String("error", redact.Error(err)))
		}
	}()

	log.Debug("upstream response",
		slog.String("method", r.Method),
		slog.String("upstream_path", target.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)))

	copyResponseHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// The status line is gone; all that is left is to log.
		log.Debug("failed to stream upstream response", slog.String("error", redact.Error(err)))
	}
}

// Ping probes upstream reachability. Any HTTP response counts as reachable;
// the gateway does not interpret upstream health semantics.
func (f *Forwarder) Ping(ctx context.Context) error {
	target := *f.upstream
	target.Path = rewritePath("/", "", f.basePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build upstream probe: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrUpstreamTimeout
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (f *Forwarder) respondTransformError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
			"Upload exceeds the "+strconv.FormatInt(f.maxUploadBytes, 10)+" byte limit", err)
	case errors.Is(err, ErrMalformedBody):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Malformed request body", err)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Gateway error", err)
	}
}

func (f *Forwarder) respondUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if isTimeout(err) {
		shared.RespondWithErrorAndLog(w, r, http.StatusGatewayTimeout,
			"Upstream did not respond in time", fmt.Errorf("%w: %v", ErrUpstreamTimeout, err))
		return
	}

	shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway,
		"Upstream unavailable", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err))
}

// isTimeout reports whether the transport error was a deadline expiry,
// either the client timeout or the inbound request context.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
