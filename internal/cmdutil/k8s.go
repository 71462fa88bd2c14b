package cmdutil

import (
	"github.com/kubeless/serverless-deploy/internal/config"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// NewK8sClient creates a Kubernetes client from resolved configuration.
// Errors wrap ErrConnectivity.
func NewK8sClient(resolved *config.ResolvedConfig) (*kubernetes.Client, error) {
	opts := kubernetes.ClientOptions{
		Kubeconfig:  resolved.Kubeconfig.Value,
		Context:     resolved.Context.Value,
		APIWarnings: config.DefaultAPIWarnings,
	}
	if resolved.Config != nil && resolved.Config.Log.Kubernetes.APIWarnings != "" {
		opts.APIWarnings = resolved.Config.Log.Kubernetes.APIWarnings
	}
	return kubernetes.NewClient(opts)
}

// ResolveNamespace returns the namespace to deploy to: the resolved
// flag/env/config value, else the kubeconfig context namespace.
func ResolveNamespace(resolved *config.ResolvedConfig, client *kubernetes.Client) string {
	if resolved.Namespace.Value != "" {
		return resolved.Namespace.Value
	}
	output.Debug("namespace from kubeconfig context", "namespace", client.Namespace)
	return client.Namespace
}
