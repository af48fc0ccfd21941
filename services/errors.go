package services

import "errors"

// Taksonomi error engine. Semua recoverable oleh caller; controller memetakan
// ke kode HTTP lewat errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrCapacityExceeded   = errors.New("party size exceeds table capacity")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrInvalidTransition  = errors.New("invalid reservation transition")
	ErrConflict           = errors.New("conflict")
)
