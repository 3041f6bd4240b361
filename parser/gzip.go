package parser

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// GzipParser reads gzip-compressed SC3ML archives (*.xml.gz), the form
// scxmldump and the archive tools write by default.
type GzipParser struct{}

func (p *GzipParser) SupportedFormats() []string { return []string{"gz", "xmlz"} }

func (p *GzipParser) Parse(ctx context.Context, path string) (*datamodel.EventParameters, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidFormat, err)
	}
	defer zr.Close()

	ep, err := Decode(zr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ep, nil
}
