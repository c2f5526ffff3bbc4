package selector

import "errors"

// Sentinel error kinds for this package.
var (
	ErrPlayerNotFound = errors.New("no matching player")
	ErrNoIdentifier   = errors.New("one of a stable id or an alias is required")
)
