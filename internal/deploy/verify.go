package deploy

import (
	"context"

	"github.com/samber/lo"

	"github.com/kubeless/serverless-deploy/internal/kubernetes"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// FunctionLabel is the pod label the Kubeless controller sets to the
// function name.
const FunctionLabel = "function"

// Verify looks for a pod of the named function in a single pod listing.
// It never fails the deployment: a list error or a miss is logged at debug
// level and reported as ok=false.
func Verify(ctx context.Context, cluster Cluster, name, namespace string) (string, bool) {
	pods, err := cluster.ListPods(ctx, namespace)
	if err != nil {
		output.Debug("unable to list pods", "function", name, "namespace", namespace, "error", err)
		return "", false
	}

	pod, ok := lo.Find(pods, func(p kubernetes.Pod) bool {
		return p.Labels[FunctionLabel] == name
	})
	if !ok {
		output.Debug("no pod found for function", "function", name, "namespace", namespace)
		return "", false
	}
	return pod.Name, true
}
