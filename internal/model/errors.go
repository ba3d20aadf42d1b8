package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("player does not own this session")
	ErrSessionEnded    = errors.New("session has ended")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrInvalidDelta    = errors.New("tick delta must be positive")

	// Score errors
	ErrSummaryNotFound = errors.New("game summary not found")
	ErrNoScores        = errors.New("player has no recorded scores")
)
