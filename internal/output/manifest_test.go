package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func testObjects() []*unstructured.Unstructured {
	mk := func(name string) *unstructured.Unstructured {
		obj := &unstructured.Unstructured{Object: map[string]interface{}{
			"spec": map[string]interface{}{"handler": name + ".hello", "type": "HTTP"},
		}}
		obj.SetAPIVersion("kubeless.io/v1beta1")
		obj.SetKind("Function")
		obj.SetName(name)
		obj.SetNamespace("default")
		return obj
	}
	return []*unstructured.Unstructured{mk("hello"), mk("goodbye")}
}

func TestWriteManifests_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifests(testObjects(), FormatYAML, &buf))

	decoder := yaml.NewDecoder(&buf)
	var names []string
	for {
		var doc map[string]interface{}
		if err := decoder.Decode(&doc); err != nil {
			break
		}
		names = append(names, doc["metadata"].(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"hello", "goodbye"}, names)
}

func TestWriteManifests_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifests(testObjects(), FormatJSON, &buf))

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Function", items[0]["kind"])
}

func TestWriteManifests_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifests(nil, FormatYAML, &buf))
	assert.Empty(t, buf.String())
}

func TestWriteManifests_TableUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteManifests(testObjects(), FormatTable, &buf)
	require.Error(t, err)
}
