package kubernetes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
)

// DiffResult compares built Function descriptors with the live cluster.
type DiffResult struct {
	// Added lists objects that do not exist in the cluster yet.
	Added []string

	// Modified lists objects whose live state differs from the descriptor.
	Modified []ModifiedResource

	// Unchanged lists objects identical to the live state.
	Unchanged []string
}

// ModifiedResource is an object with a rendered diff.
type ModifiedResource struct {
	// Name is the resource key (kind/namespace/name).
	Name string

	// Diff is the rendered dyff report.
	Diff string
}

// HasChanges reports whether any object would be added or differs.
func (r *DiffResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0
}

// Summary returns a summary string of changes.
func (r *DiffResult) Summary() string {
	if !r.HasChanges() {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if len(r.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d to deploy", len(r.Added)))
	}
	if len(r.Modified) > 0 {
		parts = append(parts, fmt.Sprintf("%d differ from the cluster", len(r.Modified)))
	}
	if len(r.Unchanged) > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", len(r.Unchanged)))
	}
	return strings.Join(parts, ", ")
}

// DiffOptions configures the diff operation.
type DiffOptions struct {
	// UseColor enables colorized diff output.
	UseColor bool
}

// Diff compares desired Function objects with their live state.
func (c *Client) Diff(ctx context.Context, desired []*unstructured.Unstructured, opts DiffOptions) (*DiffResult, error) {
	result := &DiffResult{}

	for _, desiredObj := range desired {
		key := ResourceKey(desiredObj)

		liveObj, err := c.GetFunction(ctx, desiredObj.GetName(), desiredObj.GetNamespace())
		if err != nil {
			if errors.Is(err, oerrors.ErrNotFound) {
				result.Added = append(result.Added, key)
				continue
			}
			return nil, err
		}

		diff, err := compareResources(liveObj, desiredObj, opts.UseColor)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", key, err)
		}

		if diff == "" {
			result.Unchanged = append(result.Unchanged, key)
			continue
		}
		result.Modified = append(result.Modified, ModifiedResource{Name: key, Diff: diff})
	}

	return result, nil
}

// ResourceKey generates a unique key for a resource (kind/namespace/name).
func ResourceKey(obj *unstructured.Unstructured) string {
	return fmt.Sprintf("%s/%s/%s", obj.GetKind(), obj.GetNamespace(), obj.GetName())
}

// compareResources returns a rendered diff, or "" when the objects match.
func compareResources(live, desired *unstructured.Unstructured, useColor bool) (string, error) {
	liveYAML, err := serializeForDiff(live)
	if err != nil {
		return "", fmt.Errorf("serializing live resource: %w", err)
	}

	desiredYAML, err := serializeForDiff(desired)
	if err != nil {
		return "", fmt.Errorf("serializing desired resource: %w", err)
	}

	return diffYAML(liveYAML, desiredYAML, useColor)
}

// serializeForDiff converts an object to YAML without server-managed fields.
func serializeForDiff(obj *unstructured.Unstructured) ([]byte, error) {
	clean := obj.DeepCopy()
	stripManagedFields(clean.Object)
	return yaml.Marshal(clean.Object)
}

// stripManagedFields removes fields the server sets on every object.
func stripManagedFields(obj map[string]interface{}) {
	delete(obj, "status")

	metadata, ok := obj["metadata"].(map[string]interface{})
	if !ok {
		return
	}
	for _, field := range []string{"resourceVersion", "uid", "creationTimestamp", "generation", "managedFields", "selfLink"} {
		delete(metadata, field)
	}
	if annotations, ok := metadata["annotations"].(map[string]interface{}); ok && len(annotations) == 0 {
		delete(metadata, "annotations")
	}
}

// diffYAML computes a YAML-aware diff using dyff.
func diffYAML(live, desired []byte, useColor bool) (string, error) {
	liveInput, err := parseYAMLInput("live", live)
	if err != nil {
		return "", fmt.Errorf("parsing live YAML: %w", err)
	}

	desiredInput, err := parseYAMLInput("desired", desired)
	if err != nil {
		return "", fmt.Errorf("parsing desired YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(liveInput, desiredInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderDyffReport(report, useColor)
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

// renderDyffReport renders a dyff report with trailing whitespace trimmed.
func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
