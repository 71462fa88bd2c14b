package deploy

import (
	"context"
	"sync"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeless/serverless-deploy/internal/artifact"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
	"github.com/kubeless/serverless-deploy/internal/testutil"
)

// recordingCluster is a Cluster that records every call.
type recordingCluster struct {
	mu sync.Mutex

	// createErr returns the error for a create of the named function.
	createErr func(name string) error
	pods      []kubernetes.Pod
	listErr   error

	created []*unstructured.Unstructured
	dryRuns []bool
	lists   int
}

func (c *recordingCluster) CreateFunction(_ context.Context, obj *unstructured.Unstructured, opts kubernetes.CreateOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, obj)
	c.dryRuns = append(c.dryRuns, opts.DryRun)
	if c.createErr != nil {
		return c.createErr(obj.GetName())
	}
	return nil
}

func (c *recordingCluster) ListPods(_ context.Context, _ string) ([]kubernetes.Pod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists++
	return c.pods, c.listErr
}

func (c *recordingCluster) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created) + c.lists
}

// archiveResolver returns a resolver over a fresh archive cache.
func archiveResolver(t *testing.T, entries map[string]string) (*artifact.Resolver, *artifact.ArchiveCache) {
	t.Helper()
	cache := artifact.NewArchiveCache()
	return artifact.NewResolver(artifact.NewSource(testutil.WriteZip(t, t.TempDir(), "service.zip", entries), "", cache)), cache
}
