package sc3stuff

import "errors"

var (
	// ErrIO is returned when an archive cannot be opened or read.
	ErrIO = errors.New("sc3stuff: unable to read archive")

	// ErrFormat is returned when an archive holds no EventParameters root.
	ErrFormat = errors.New("sc3stuff: invalid archive format")

	// ErrDocumentNotFound is returned when a document ID does not exist.
	ErrDocumentNotFound = errors.New("sc3stuff: document not found")

	// ErrEventNotFound is returned when no stored event has the publicID.
	ErrEventNotFound = errors.New("sc3stuff: event not found")

	// ErrInvalidQuery is returned for out-of-range query parameters.
	ErrInvalidQuery = errors.New("sc3stuff: invalid query")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("sc3stuff: invalid configuration")
)
