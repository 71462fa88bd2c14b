// Package config provides configuration loading and management.
package config

// LogKubernetesConfig contains Kubernetes-related logging settings.
type LogKubernetesConfig struct {
	// APIWarnings controls how Kubernetes API warnings are displayed.
	// Valid values: "warn" (default), "debug", "suppress"
	APIWarnings string `mapstructure:"apiWarnings"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps"`

	// Kubernetes contains Kubernetes-related logging settings.
	Kubernetes LogKubernetesConfig `mapstructure:"kubernetes"`
}

// DeployConfig contains defaults for the deploy command.
type DeployConfig struct {
	// Concurrency is how many functions are deployed at once.
	// Env: KUBELESS_DEPLOY_CONCURRENCY, Default: 1
	Concurrency int `mapstructure:"concurrency"`
}

// Config represents the kubeless-deploy configuration file.
// Loaded from ~/.kubeless-deploy/config.yaml.
type Config struct {
	// Kubeconfig is the path to the kubeconfig file.
	// Env: KUBELESS_KUBECONFIG, Default: ~/.kube/config
	Kubeconfig string `mapstructure:"kubeconfig"`

	// Context is the Kubernetes context to use.
	// Env: KUBELESS_CONTEXT, Default: current-context from kubeconfig
	Context string `mapstructure:"context"`

	// Namespace is the namespace functions are deployed to.
	// Env: KUBELESS_NAMESPACE, Default: namespace of the kubeconfig context
	Namespace string `mapstructure:"namespace"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log"`

	// Deploy contains deploy command defaults.
	Deploy DeployConfig `mapstructure:"deploy"`
}

// Default values.
const (
	DefaultAPIWarnings = "warn"
	DefaultConcurrency = 1
)
