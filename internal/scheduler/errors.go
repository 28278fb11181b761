package scheduler

import "errors"

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty: must be one of again, hard, good, easy")
	ErrEmptyItemID       = errors.New("item id must not be empty")
)
