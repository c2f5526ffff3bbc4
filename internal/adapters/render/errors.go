package render

import "errors"

// ErrWrite wraps any failure writing rendered output.
var ErrWrite = errors.New("render output")
