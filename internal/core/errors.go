package core

import "errors"

// Error taxonomy. Repositories and services wrap these sentinels; the API
// layer maps them to status codes. Absence of a referenced entity in read
// paths degrades to empty results instead of ErrNotFound wherever the
// contract says so.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)
