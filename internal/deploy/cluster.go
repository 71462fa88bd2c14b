package deploy

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeless/serverless-deploy/internal/kubernetes"
)

// Cluster is the cluster capability the deployer needs.
// *kubernetes.Client implements it.
type Cluster interface {
	CreateFunction(ctx context.Context, obj *unstructured.Unstructured, opts kubernetes.CreateOptions) error
	ListPods(ctx context.Context, namespace string) ([]kubernetes.Pod, error)
}

var _ Cluster = (*kubernetes.Client)(nil)
