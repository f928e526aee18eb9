package model

import "github.com/rotisserie/eris"

// Error taxonomy shared across the HTTP surface and collaborators. Wrap with
// eris and test with eris.Is.
var (
	// ErrValidation marks bad client input; no job is created.
	ErrValidation = eris.New("validation error")
	// ErrNotFound marks a lookup for an unknown job identifier.
	ErrNotFound = eris.New("not found")
)
