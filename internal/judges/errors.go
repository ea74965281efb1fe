package judges

import "errors"

var (
	ErrNotFound       = errors.New("judge not found")
	ErrEmptyName      = errors.New("judge name is required")
	ErrDuplicateSlug  = errors.New("judge already exists")
	ErrInvalidCircuit = errors.New("please enter a valid circuit")
)
