package output

import (
	"fmt"
	"strings"
)

// Format specifies how deploy results are printed on stdout.
type Format string

const (
	// FormatNone prints nothing beyond log lines.
	FormatNone Format = ""

	// FormatYAML prints the built descriptors as YAML documents.
	FormatYAML Format = "yaml"

	// FormatJSON prints the built descriptors as a JSON array.
	FormatJSON Format = "json"

	// FormatTable prints a summary table of outcomes.
	FormatTable Format = "table"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses an --output value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return FormatNone, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	default:
		return FormatNone, fmt.Errorf("invalid output format %q (valid: yaml, json, table)", s)
	}
}
