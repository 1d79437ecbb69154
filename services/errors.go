// services/errors.go
package services

import "errors"

// Error taxonomy shared by all services. Handlers translate these with
// errors.Is: NotFound → 404, InvalidState → 400, Conflict → 409,
// Transient and everything else → 500 without internal detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("temporarily unavailable")
)
