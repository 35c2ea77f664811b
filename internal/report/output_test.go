package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/storage"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		spec    string
		want    Output
		wantErr error
	}{
		{"", Output{}, nil},
		{"xml:out/report.xml", Output{Format: FormatXML, Path: "out/report.xml"}, nil},
		{"xml", Output{Format: FormatXML, Path: DefaultXMLPath}, nil},
		{"XML:report.xml", Output{Format: FormatXML, Path: "report.xml"}, nil},
		{"json", Output{Format: FormatJSON, Path: DefaultJSONPath}, nil},
		{"json:C:/results.json", Output{Format: FormatJSON, Path: "C:/results.json"}, nil},
		{"yaml:out.yaml", Output{}, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseOutput(tt.spec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	xmlOut := Output{Format: FormatXML, Path: filepath.Join(dir, "report.xml")}
	require.NoError(t, Write(xmlOut, sampleRun()))
	data, err := os.ReadFile(xmlOut.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuites tests="3" failures="1"`)

	jsonOut := Output{Format: FormatJSON, Path: filepath.Join(dir, "results.json")}
	require.NoError(t, Write(jsonOut, sampleRun()))
	loaded, err := storage.NewJSONStorage(jsonOut.Path).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Meta.FailedTests)

	require.NoError(t, Write(Output{}, sampleRun()))
	require.ErrorIs(t, Write(Output{Format: "csv"}, sampleRun()), ErrUnknownFormat)
}
