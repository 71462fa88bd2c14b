package kubernetes

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeless/serverless-deploy/internal/function"
)

// CreateOptions configures a Function create call.
type CreateOptions struct {
	// DryRun submits with server-side dry run. Nothing is persisted.
	DryRun bool
}

// CreateFunction submits a Function resource with a single create call. The
// returned error is the API error unchanged so callers can read its status
// code and reason.
func (c *Client) CreateFunction(ctx context.Context, obj *unstructured.Unstructured, opts CreateOptions) error {
	createOpts := metav1.CreateOptions{FieldManager: fieldManagerName}
	if opts.DryRun {
		createOpts.DryRun = []string{metav1.DryRunAll}
	}

	_, err := c.Dynamic.Resource(function.GroupVersionResource()).
		Namespace(obj.GetNamespace()).
		Create(ctx, obj, createOpts)
	return err
}

// GetFunction fetches a live Function by name.
func (c *Client) GetFunction(ctx context.Context, name, namespace string) (*unstructured.Unstructured, error) {
	obj, err := c.Dynamic.Resource(function.GroupVersionResource()).
		Namespace(namespace).
		Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting function %s/%s: %w", namespace, name, classifyError(err))
	}
	return obj, nil
}
