package kubernetes

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Pod is the subset of a pod needed to match it to a function.
type Pod struct {
	Name   string
	Labels map[string]string
}

// ListPods returns a single snapshot of the pods in namespace.
func (c *Client) ListPods(ctx context.Context, namespace string) ([]Pod, error) {
	list, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing pods in %s: %w", namespace, classifyError(err))
	}

	pods := make([]Pod, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, Pod{
			Name:   list.Items[i].Name,
			Labels: list.Items[i].Labels,
		})
	}
	return pods, nil
}
