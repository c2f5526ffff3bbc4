package logreader

import "errors"

// ErrMalformedTimestamp is returned when a line's fixed-width date prefix
// cannot be parsed. It aborts the whole read.
var ErrMalformedTimestamp = errors.New("malformed timestamp")
