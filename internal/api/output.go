package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatTOML OutputFormat = "toml"
)

// globalOutputFormat is set by the root command's --output flag.
var globalOutputFormat = OutputFormatYAML

// SetOutputFormat sets the global output format.
func SetOutputFormat(format string) error {
	switch f := OutputFormat(format); f {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatTOML:
		globalOutputFormat = f
		return nil
	}
	return fmt.Errorf("unknown output format %q (want yaml, json or toml)", format)
}

// GetOutputFormat returns the current global output format.
func GetOutputFormat() OutputFormat {
	return globalOutputFormat
}

// Output writes data to stdout in the configured format.
func Output(data any) error {
	return OutputTo(os.Stdout, globalOutputFormat, data)
}

// OutputTo writes data to the given writer in the specified format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case OutputFormatTOML:
		// TOML documents must be tables; wrap lists and scalars.
		if !isTable(data) {
			data = map[string]any{"result": data}
		}
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func isTable(data any) bool {
	b, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return len(b) > 0 && b[0] == '{'
}
