package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedType indicates an unknown document type.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrParse indicates a document's content could not be interpreted.
	ErrParse = errors.New("parse error")

	// ErrFileNotFound indicates no chunks are held for a file.
	ErrFileNotFound = errors.New("file not found in session")

	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
