package core

import "errors"

var (
	// ErrMalformedPayload marks a payload that violates the caller contract:
	// bars missing required fields or carrying non-monotonic time keys.
	// A render pass aborts on it, leaving previously rendered panes intact.
	ErrMalformedPayload = errors.New("malformed analysis payload")

	// ErrNoIdentity is returned when a fetch is requested without a
	// signed-in identity.
	ErrNoIdentity = errors.New("no signed-in identity")

	// ErrSnapshotNotFound is returned when no stored snapshot exists for a
	// symbol.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
