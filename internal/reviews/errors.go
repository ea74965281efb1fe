package reviews

import "errors"

var (
	ErrEmptyComment  = errors.New("comment is required")
	ErrMissingRating = errors.New("rating is required")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrJudgeNotFound = errors.New("judge not found")
)
