package services

import "errors"

// Service-level errors
var (
	ErrScoreNotFound = errors.New("tenant score not found")
	ErrForbidden     = errors.New("access to tenant denied")
)
