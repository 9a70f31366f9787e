package shared

import "errors"

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidNotation = errors.New("invalid notation")
)
