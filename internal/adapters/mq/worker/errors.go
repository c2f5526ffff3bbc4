package worker

import "errors"

// ErrPanic marks a job whose handler panicked.
var ErrPanic = errors.New("job panicked")
