package state

import "github.com/pkg/errors"

// Sentinel errors returned by the State Store, surfaced by callers as
// the facade's State(inner) error kind (spec.md §7).
var (
	ErrClassNotInstalled  = errors.New("class not installed")
	ErrNotSierraBearing   = errors.New("declared class has no attached sierra body")
	ErrClassAlreadyExists = errors.New("class already installed with a different body")
)
