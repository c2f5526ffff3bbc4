package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("summary not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrInvalid      = errors.New("invalid summary")
	ErrClosed       = errors.New("store closed")
)
