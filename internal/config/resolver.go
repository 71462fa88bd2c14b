package config

import (
	"fmt"
	"os"
	"regexp"

	oerrors "github.com/kubeless/serverless-deploy/internal/errors"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// namespaceRegex validates Kubernetes namespace names per RFC 1123.
var namespaceRegex = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ResolvedValue is a configuration value together with where it came from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed holds lower-precedence values that were overridden.
	Shadowed map[ConfigSource]string
}

// ResolvedConfig holds every resolved value the commands use.
type ResolvedConfig struct {
	ConfigPath ResolvedValue
	Kubeconfig ResolvedValue
	Context    ResolvedValue

	// Namespace may be empty, in which case the kubeconfig context
	// namespace applies.
	Namespace ResolvedValue

	// Config is the loaded config file.
	Config *Config
}

// Values returns the resolved values in display order.
func (r *ResolvedConfig) Values() []ResolvedValue {
	return []ResolvedValue{r.ConfigPath, r.Kubeconfig, r.Context, r.Namespace}
}

// ResolveAllOptions holds the raw flag values.
type ResolveAllOptions struct {
	ConfigFlag     string
	KubeconfigFlag string
	ContextFlag    string
	NamespaceFlag  string
}

// ResolveAll resolves the config path, loads the config file, and resolves
// each value with precedence flag > env > config > default.
func ResolveAll(opts ResolveAllOptions) (*ResolvedConfig, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("resolving default paths: %w", err)
	}

	configPath := resolveValue("config", opts.ConfigFlag, "KUBELESS_CONFIG", "", paths.ConfigFile)

	cfg, err := NewLoader().Load(configPath.Value)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		ConfigPath: configPath,
		Kubeconfig: resolveValue("kubeconfig", opts.KubeconfigFlag, "KUBELESS_KUBECONFIG", cfg.Kubeconfig, ""),
		Context:    resolveValue("context", opts.ContextFlag, "KUBELESS_CONTEXT", cfg.Context, ""),
		Namespace:  resolveValue("namespace", opts.NamespaceFlag, "KUBELESS_NAMESPACE", cfg.Namespace, ""),
		Config:     cfg,
	}

	if err := Validate(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveValue picks the highest-precedence non-empty value.
func resolveValue(key, flagValue, envVar, configValue, defaultValue string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flagValue},
		{SourceEnv, os.Getenv(envVar)},
		{SourceConfig, configValue},
		{SourceDefault, defaultValue},
	}

	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

// Validate checks resolved values and config settings.
func Validate(r *ResolvedConfig) error {
	var errs ValidationErrors

	if err := ValidateNamespace(r.Namespace.Value); err != nil {
		errs = append(errs, *err)
	}

	if r.Config != nil {
		switch r.Config.Log.Kubernetes.APIWarnings {
		case "", "warn", "debug", "suppress":
		default:
			errs = append(errs, ValidationError{
				Field:   "log.kubernetes.apiWarnings",
				Message: "must be one of warn, debug, suppress",
			})
		}
		if r.Config.Deploy.Concurrency < 0 {
			errs = append(errs, ValidationError{
				Field:   "deploy.concurrency",
				Message: "must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateNamespace checks a namespace name. Empty is valid.
func ValidateNamespace(namespace string) *ValidationError {
	if namespace == "" {
		return nil
	}
	if len(namespace) > 63 {
		return &ValidationError{Field: "namespace", Message: "must be at most 63 characters"}
	}
	if !namespaceRegex.MatchString(namespace) {
		return &ValidationError{
			Field:   "namespace",
			Message: "must be a valid Kubernetes namespace name (lowercase alphanumeric with hyphens)",
		}
	}
	return nil
}

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msg := "config validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  %s: %s", err.Field, err.Message)
	}
	return msg
}

// Is matches ErrValidation.
func (e ValidationErrors) Is(target error) bool {
	return target == oerrors.ErrValidation
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
