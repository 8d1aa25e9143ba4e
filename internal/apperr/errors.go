// Package apperr defines sentinel errors shared across contentd layers.
package apperr

import "errors"

var (
	// ErrNotFound indicates a requested identifier is absent from the
	// loaded catalog. Distinct from a degraded fetch.
	ErrNotFound = errors.New("not found")

	// ErrNoLocator indicates body resolution was requested for an entry
	// with no locator and no inline content. This is an upstream data bug
	// and fails loudly instead of falling back.
	ErrNoLocator = errors.New("entry has no locator")

	// ErrNoToken indicates the GitHub credential is absent; star data is
	// unavailable beyond whatever the cache holds.
	ErrNoToken = errors.New("github token not configured")
)
