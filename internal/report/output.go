package report

import (
	"errors"
	"fmt"
	"strings"

	"gtr/internal/aggregate"
	"gtr/internal/storage"
)

// ErrUnknownFormat is returned for an output spec naming an unsupported format
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// Default report locations when an output spec names only the format
const (
	DefaultXMLPath  = "test_detail.xml"
	DefaultJSONPath = "storage/test-results.json"
)

// Output selects a structured report and its destination
type Output struct {
	Format string
	Path   string
}

// Enabled reports whether a structured report was requested
func (o Output) Enabled() bool {
	return o.Format != ""
}

func (o Output) String() string {
	if !o.Enabled() {
		return ""
	}
	return o.Format + ":" + o.Path
}

// ParseOutput parses "<format>[:<path>]". An empty spec disables file output.
func ParseOutput(spec string) (Output, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Output{}, nil
	}

	format, path, _ := strings.Cut(spec, ":")
	format = strings.ToLower(format)
	switch format {
	case FormatXML:
		if path == "" {
			path = DefaultXMLPath
		}
	case FormatJSON:
		if path == "" {
			path = DefaultJSONPath
		}
	default:
		return Output{}, fmt.Errorf("%w %q, expected xml:<path> or json:<path>", ErrUnknownFormat, format)
	}
	return Output{Format: format, Path: path}, nil
}

// Write writes the run in the selected format. Any failure to write the
// report is returned to the caller.
func Write(out Output, run aggregate.Run) error {
	switch out.Format {
	case "":
		return nil
	case FormatXML:
		return WriteJUnitFile(out.Path, run)
	case FormatJSON:
		return storage.NewJSONStorage(out.Path).Save(run)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, out.Format)
	}
}
