package project

import "errors"

// Sentinel errors for project input loading. Callers treat both as "input
// absent" and continue with empty data.
var (
	// ErrMalformedFeatures indicates features.json exists but cannot be parsed.
	ErrMalformedFeatures = errors.New("malformed feature list")
	// ErrMalformedConfig indicates forge.toml exists but cannot be parsed.
	ErrMalformedConfig = errors.New("malformed forge.toml")
)
