package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownLog = errors.New("unknown log")
	ErrNoTargets  = errors.New("no target players")
	ErrEmptyLog   = errors.New("empty log")
	ErrInProgress = errors.New("identical upload in progress")
)
