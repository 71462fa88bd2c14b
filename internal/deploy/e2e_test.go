package deploy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	fakedynamic "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
)

func TestDeployAll_EndToEnd(t *testing.T) {
	dyn := fakedynamic.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(),
		map[schema.GroupVersionResource]string{function.GroupVersionResource(): "FunctionList"})
	clientset := fake.NewClientset(&corev1.Pod{ObjectMeta: metav1.ObjectMeta{
		Name:      "hello-6d4b9",
		Namespace: "default",
		Labels:    map[string]string{FunctionLabel: "hello"},
	}})
	client := &kubernetes.Client{Dynamic: dyn, Clientset: clientset, Namespace: "default"}

	resolver, cache := archiveResolver(t, map[string]string{"handler.py": "X"})
	report := NewDeployer(client, resolver, Options{Namespace: client.Namespace}).
		DeployAll(context.Background(), []function.Config{
			{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"},
		})

	require.NoError(t, report.Err())
	assert.Equal(t, 1, cache.Parses())

	results := report.Results()
	require.Len(t, results, 1)
	assert.Equal(t, StateCreated, results[0].State)
	assert.Equal(t, OutcomeCreated, results[0].Outcome.Kind)
	assert.Equal(t, "hello-6d4b9", results[0].Pod)

	live, err := dyn.Resource(function.GroupVersionResource()).Namespace("default").
		Get(context.Background(), "hello", metav1.GetOptions{})
	require.NoError(t, err)

	spec, found, err := unstructured.NestedStringMap(live.Object, "spec")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]string{
		"handler":  "handler.hello",
		"deps":     "",
		"function": "X",
		"runtime":  "python3.6",
		"type":     "HTTP",
		"topic":    "",
	}, spec)

	// A second run against the same cluster reports the existing function.
	again := NewDeployer(client, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{
			{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"},
		})
	require.NoError(t, again.Err())
	assert.Equal(t, StateAlreadyExists, again.Results()[0].State)
}
