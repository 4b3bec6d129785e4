// internal/services/errors.go
package services

import "errors"

// Sentinel errors handlers translate to HTTP statuses. Services wrap them
// with context via fmt.Errorf and %w.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("not authorized")
	ErrUnavailable  = errors.New("not available")
	ErrOutOfStock   = errors.New("insufficient inventory")
	ErrInvalidState = errors.New("invalid state transition")
)
