package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestBuild(t *testing.T) {
	cfg := Config{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}

	desc := Build(cfg, "X", "", "default")

	assert.Equal(t, "kubeless.io/v1beta1", desc.APIVersion)
	assert.Equal(t, "Function", desc.Kind)
	assert.Equal(t, "hello", desc.Name)
	assert.Equal(t, "default", desc.Namespace)
	assert.Equal(t, Spec{
		Deps:     "",
		Function: "X",
		Handler:  "handler.hello",
		Runtime:  "python3.6",
		Topic:    "",
		Type:     "HTTP",
	}, desc.Spec)
}

func TestDescriptorObject(t *testing.T) {
	desc := Build(Config{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"},
		"def hello():\n    return 'hi'\n", "requests==2.18.4\n", "functions")

	obj := desc.Object()

	assert.Equal(t, "kubeless.io/v1beta1", obj.GetAPIVersion())
	assert.Equal(t, "Function", obj.GetKind())
	assert.Equal(t, "hello", obj.GetName())
	assert.Equal(t, "functions", obj.GetNamespace())
	assert.Equal(t, "kubeless-deploy", obj.GetLabels()[LabelManagedBy])

	deps, found, err := unstructured.NestedString(obj.Object, "spec", "deps")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "requests==2.18.4\n", deps)

	trigger, _, err := unstructured.NestedString(obj.Object, "spec", "type")
	require.NoError(t, err)
	assert.Equal(t, "HTTP", trigger)

	topic, found, err := unstructured.NestedString(obj.Object, "spec", "topic")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, topic)
}

func TestDescriptorObject_ReturnsFreshCopy(t *testing.T) {
	desc := Build(Config{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}, "X", "", "default")

	first := desc.Object()
	first.SetName("mutated")
	require.NoError(t, unstructured.SetNestedField(first.Object, "Y", "spec", "function"))

	second := desc.Object()
	assert.Equal(t, "hello", second.GetName())
	fn, _, _ := unstructured.NestedString(second.Object, "spec", "function")
	assert.Equal(t, "X", fn)
	assert.Equal(t, "X", desc.Spec.Function)
}

func TestGroupVersionResource(t *testing.T) {
	gvr := GroupVersionResource()
	assert.Equal(t, "kubeless.io", gvr.Group)
	assert.Equal(t, "v1beta1", gvr.Version)
	assert.Equal(t, "functions", gvr.Resource)
}
