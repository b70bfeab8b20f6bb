package apperr

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrNotSelectable = errors.New("date is not selectable")
)
