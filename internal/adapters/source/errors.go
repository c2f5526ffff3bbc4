package source

import "errors"

// Sentinel error kinds for this package.
var (
	ErrOpen    = errors.New("open log")
	ErrFetch   = errors.New("fetch log")
	ErrArchive = errors.New("read log archive")
)
