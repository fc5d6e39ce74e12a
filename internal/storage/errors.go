package storage

import "errors"

var (
	// ErrInvalidInput indicates a record missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)
