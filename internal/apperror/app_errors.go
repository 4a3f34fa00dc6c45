package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStatsNotFound   = errors.New("stats not found")
)
