package service

import "errors"

// Sentinel errors shared by all services. Handlers translate these into
// HTTP status codes; wrapped causes stay available through errors.Is.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("access forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("resource conflict")
)
