// Package api provides HTTP handlers for the API surface. In gateway mode
// these routes forward to the upstream service; the handlers here serve the
// same surface from the in-memory store in standalone (development) mode.
package api
