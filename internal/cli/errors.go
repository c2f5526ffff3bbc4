package cli

import "errors"

// ErrNothingWritten is returned by batch when no requested player produced a graph.
var ErrNothingWritten = errors.New("no graphs written")

const noMatchMessage = "Couldn't find a matching player in the given log."
