package config

import "errors"

var (
	ErrMissingDatabaseURL     = errors.New("DATABASE_URL is empty")
	ErrMissingPort            = errors.New("port must not be empty")
	ErrNoCircuits             = errors.New("circuit allow-list must not be empty")
	ErrDuplicateCircuit       = errors.New("circuit allow-list contains duplicates")
	ErrInvalidSuggestionLimit = errors.New("suggestion_limit must be positive")
)
