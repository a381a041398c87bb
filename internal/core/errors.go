package core

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("not authorized")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthenticated  = errors.New("not authenticated")
)
