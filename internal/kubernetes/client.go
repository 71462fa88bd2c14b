// Package kubernetes provides the cluster operations used to deploy
// functions: creating Function resources, listing pods and reading live
// Function objects for diffs.
package kubernetes

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
)

// defaultNamespace is used when neither flags nor kubeconfig name one.
const defaultNamespace = "default"

// fieldManagerName identifies this tool in managedFields.
const fieldManagerName = "kubeless-deploy"

// ClientOptions configures Kubernetes client creation.
type ClientOptions struct {
	// Kubeconfig is the path to the kubeconfig file.
	// Precedence: this field > KUBELESS_KUBECONFIG env > KUBECONFIG env > ~/.kube/config
	Kubeconfig string

	// Context is the Kubernetes context to use.
	// If empty, uses the current-context from kubeconfig.
	Context string

	// APIWarnings controls how API server warnings are logged:
	// "warn" (default), "debug" or "suppress".
	APIWarnings string
}

// Client wraps Kubernetes API clients.
type Client struct {
	// Dynamic is used to create and read Function resources.
	Dynamic dynamic.Interface

	// Clientset is used to list pods.
	Clientset kubernetes.Interface

	// RestConfig is the underlying REST configuration.
	RestConfig *rest.Config

	// Namespace is the default namespace of the selected kubeconfig context,
	// or "default".
	Namespace string
}

// cachedClient stores the client for reuse within a command.
var (
	cachedClient *Client
	clientMu     sync.Mutex
)

// NewClient creates a Kubernetes client with the given options.
// The client is cached for reuse within the same command invocation.
func NewClient(opts ClientOptions) (*Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	if cachedClient != nil {
		return cachedClient, nil
	}

	kubeconfig := resolveKubeconfig(opts.Kubeconfig)
	clientConfig := buildClientConfig(kubeconfig, opts.Context)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		errCtx := map[string]string{"Kubeconfig": kubeconfig}
		if opts.Context != "" {
			errCtx["Context"] = opts.Context
		}
		return nil, oerrors.NewConnectivityError(
			fmt.Sprintf("building kubernetes config: %v", err),
			errCtx,
			"check --kubeconfig and --context, or set KUBELESS_KUBECONFIG",
		)
	}

	namespace, _, err := clientConfig.Namespace()
	if err != nil || namespace == "" {
		namespace = defaultNamespace
	}

	client, err := NewClientFromConfig(restConfig, namespace, opts.APIWarnings)
	if err != nil {
		return nil, err
	}

	cachedClient = client
	return cachedClient, nil
}

// NewClientFromConfig creates a client from an existing REST config.
func NewClientFromConfig(restConfig *rest.Config, namespace, apiWarnings string) (*Client, error) {
	cfg := rest.CopyConfig(restConfig)
	cfg.WarningHandler = newWarningHandler(apiWarnings)

	dynamicClient, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w",
			oerrors.Wrap(oerrors.ErrConnectivity, err.Error()))
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w",
			oerrors.Wrap(oerrors.ErrConnectivity, err.Error()))
	}

	if namespace == "" {
		namespace = defaultNamespace
	}

	return &Client{
		Dynamic:    dynamicClient,
		Clientset:  clientset,
		RestConfig: cfg,
		Namespace:  namespace,
	}, nil
}

// ResetClient clears the cached client. Used for testing.
func ResetClient() {
	clientMu.Lock()
	defer clientMu.Unlock()
	cachedClient = nil
}

// buildClientConfig loads kubeconfig and applies the context override.
func buildClientConfig(kubeconfig, kubeContext string) clientcmd.ClientConfig {
	loadingRules := &clientcmd.ClientConfigLoadingRules{
		ExplicitPath: kubeconfig,
	}

	overrides := &clientcmd.ConfigOverrides{}
	if kubeContext != "" {
		overrides.CurrentContext = kubeContext
	}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)
}

// resolveKubeconfig resolves kubeconfig path with precedence:
// flag > KUBELESS_KUBECONFIG > KUBECONFIG > ~/.kube/config
func resolveKubeconfig(flagValue string) string {
	var path string

	if flagValue != "" {
		path = flagValue
	} else if v := os.Getenv("KUBELESS_KUBECONFIG"); v != "" {
		path = v
	} else if v := os.Getenv("KUBECONFIG"); v != "" {
		path = v
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".kube", "config")
	}

	return expandTilde(path)
}

// expandTilde expands a leading ~ or ~/ to the user's home directory.
// ~username forms are returned unchanged.
func expandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if len(path) > 1 && path[1] == '/' {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
