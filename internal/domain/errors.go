package domain

import "errors"

// Error kinds surfaced by the catalog. Callers match them with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrProviderFailure = errors.New("provider failure")
)
