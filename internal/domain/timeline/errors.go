package timeline

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrDegenerateTimeline is returned when a player's filtered events
	// cannot span a time range: fewer than two events or zero duration.
	ErrDegenerateTimeline = errors.New("degenerate timeline: need at least two events spanning time")
	ErrInvalidBatching    = errors.New("batching window must be positive")
)
