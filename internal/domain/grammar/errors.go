package grammar

import "errors"

// ErrMalformedLine is returned when a line matches a rule head but its
// contents cannot be interpreted.
var ErrMalformedLine = errors.New("malformed log line")
