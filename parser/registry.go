package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// DefaultFormat is used for files whose extension no parser claims.
// SeisComP archives are frequently written without an extension.
const DefaultFormat = "xml"

type Registry struct {
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	// Register built-in parsers
	sc3ml := &SC3MLParser{}
	gz := &GzipParser{}

	for _, p := range []Parser{sc3ml, gz} {
		for _, f := range p.SupportedFormats() {
			r.parsers[f] = p
		}
	}
	return r
}

func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("no parser for format: %s", format)
	}
	return p, nil
}

func (r *Registry) Register(format string, p Parser) {
	r.parsers[format] = p
}

// ForPath picks the parser for path by its extension, falling back to
// DefaultFormat.
func (r *Registry) ForPath(path string) (Parser, string, error) {
	format := FormatOf(path)
	if p, ok := r.parsers[format]; ok {
		return p, format, nil
	}
	p, err := r.Get(DefaultFormat)
	return p, DefaultFormat, err
}

// Load reads the event-parameters document at path with the parser its
// extension selects.
func (r *Registry) Load(ctx context.Context, path string) (*datamodel.EventParameters, error) {
	p, _, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, path)
}

// FormatOf returns the lower-cased extension of path without the dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
