package parser

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sc3stuff/sc3stuff/datamodel"
)

// SchemaVersion is the SC3ML schema version written by Write.
const SchemaVersion = "0.12"

// Namespace is the SC3ML namespace written by Write.
const Namespace = "http://geofon.gfz-potsdam.de/ns/seiscomp3-schema/" + SchemaVersion

// rootElement is the document element every SC3ML archive starts with.
const rootElement = "seiscomp"

// seiscompDoc is the decode shape of an SC3ML archive. Child elements are
// matched by local name so any schema version is accepted.
type seiscompDoc struct {
	XMLName         xml.Name
	Version         string                     `xml:"version,attr"`
	EventParameters *datamodel.EventParameters `xml:"EventParameters"`
}

// seiscompOut is the encode shape; it carries the default namespace.
type seiscompOut struct {
	XMLName         xml.Name                   `xml:"seiscomp"`
	Xmlns           string                     `xml:"xmlns,attr"`
	Version         string                     `xml:"version,attr"`
	EventParameters *datamodel.EventParameters `xml:"EventParameters"`
}

// SC3MLParser reads plain SC3ML XML archives.
type SC3MLParser struct{}

func (p *SC3MLParser) SupportedFormats() []string { return []string{"xml", "scml", "sc3ml"} }

func (p *SC3MLParser) Parse(ctx context.Context, path string) (*datamodel.EventParameters, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	ep, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ep, nil
}

// Decode reads one SC3ML archive from r. Read failures are reported as
// ErrUnreadable, everything else as ErrInvalidFormat or
// ErrNoEventParameters.
func Decode(r io.Reader) (*datamodel.EventParameters, error) {
	var doc seiscompDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		var syntaxErr *xml.SyntaxError
		switch {
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: empty document", ErrInvalidFormat)
		case errors.As(err, &syntaxErr):
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		case isReadError(err):
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}

	if doc.XMLName.Local != rootElement {
		return nil, fmt.Errorf("%w: unexpected root element <%s>", ErrInvalidFormat, doc.XMLName.Local)
	}
	if doc.EventParameters == nil {
		return nil, ErrNoEventParameters
	}
	return doc.EventParameters, nil
}

// Write encodes ep as an SC3ML archive.
func Write(w io.Writer, ep *datamodel.EventParameters) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(seiscompOut{
		Xmlns:           Namespace,
		Version:         SchemaVersion,
		EventParameters: ep,
	}); err != nil {
		return fmt.Errorf("encoding SC3ML: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes ep as an SC3ML archive to path.
func WriteFile(path string, ep *datamodel.EventParameters) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, ep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// isReadError reports whether err came from the file rather than from XML
// decoding, e.g. reading a directory. The decoder passes reader errors
// through unwrapped.
func isReadError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}
