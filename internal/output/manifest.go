package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// WriteManifests writes objects to w as YAML documents or a JSON array.
func WriteManifests(objects []*unstructured.Unstructured, format Format, w io.Writer) error {
	if len(objects) == 0 {
		return nil
	}

	switch format {
	case FormatJSON:
		return writeJSON(objects, w)
	case FormatYAML:
		return writeYAML(objects, w)
	default:
		return fmt.Errorf("format %s not supported for manifest output", format)
	}
}

// writeYAML writes objects as YAML documents separated by ---.
func writeYAML(objects []*unstructured.Unstructured, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	for _, obj := range objects {
		if err := encoder.Encode(obj.Object); err != nil {
			return fmt.Errorf("encoding %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}
	}

	return encoder.Close()
}

// writeJSON writes objects as a JSON array.
func writeJSON(objects []*unstructured.Unstructured, w io.Writer) error {
	items := make([]map[string]interface{}, len(objects))
	for i, obj := range objects {
		items[i] = obj.Object
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}
