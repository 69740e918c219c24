package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoPlayerBound  = errors.New("no player bound to session")

	// Team errors
	ErrTeamNotFound  = errors.New("team not found")
	ErrNoTeam        = errors.New("player has no team")
	ErrAlreadyInTeam = errors.New("player already belongs to another team")

	// Authentication errors
	ErrWrongSecret = errors.New("wrong secret")

	// Challenge errors
	ErrChallengeNotFound = errors.New("no challenge matches the flag")
)
