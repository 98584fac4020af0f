// Package store defines interfaces for the gateway's local data layer.
// The upstream service owns all task and user data; these interfaces exist
// for standalone (development) mode and tests, where an in-memory
// implementation stands in for the upstream.
package store
