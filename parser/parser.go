package parser

import (
	"context"
	"errors"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

var (
	// ErrUnreadable is returned when the document file cannot be opened or read.
	ErrUnreadable = errors.New("unable to open")

	// ErrInvalidFormat is returned when the file holds no decodable root object.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNoEventParameters is returned when the root object is not an
	// EventParameters container.
	ErrNoEventParameters = errors.New("no eventparameters found")
)

// Parser reads an event-parameters document in a specific file format.
type Parser interface {
	Parse(ctx context.Context, path string) (*datamodel.EventParameters, error)
	SupportedFormats() []string
}
