package utils

import "errors"

var (
	// ErrBackendUnavailable signals that the origin could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendStatus signals a non-2xx answer from the origin.
	ErrBackendStatus = errors.New("backend returned unexpected status")
	// ErrBackendBodyTooLarge signals a body above backend.max_body_bytes.
	ErrBackendBodyTooLarge = errors.New("backend body too large")
)
