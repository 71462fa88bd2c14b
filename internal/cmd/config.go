package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kubeless/serverless-deploy/internal/config"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// defaultConfigTemplate is written by config init.
const defaultConfigTemplate = `# kubeless-deploy configuration
#
# Precedence per value: flag > KUBELESS_* environment > this file > default.

# kubeconfig: ~/.kube/config
# context: ""
# namespace: ""

log:
  timestamps: true
  kubernetes:
    # warn, debug or suppress
    apiWarnings: warn

deploy:
  concurrency: 1
`

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Manage the kubeless-deploy configuration file",
		// The file may be the thing being fixed, so it is not loaded here.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetupLogging(output.LogConfig{Verbose: verboseFlag})
			return nil
		},
	}

	c.AddCommand(newConfigInitCmd())
	c.AddCommand(newConfigVetCmd())

	return c
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with default values",
		Long: `Create a configuration file with default values.

The file is created at ~/.kubeless-deploy/config.yaml by default.
Use --config or KUBELESS_CONFIG to choose a different location.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigInit(c, force)
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return c
}

func newConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigVet(c)
		},
	}
}

// configFilePath resolves the config file path: flag > env > default.
func configFilePath() (string, error) {
	if configFlag != "" {
		return config.ExpandTilde(configFlag), nil
	}
	if env := os.Getenv("KUBELESS_CONFIG"); env != "" {
		return config.ExpandTilde(env), nil
	}
	paths, err := config.DefaultPaths()
	if err != nil {
		return "", fmt.Errorf("resolving default paths: %w", err)
	}
	return paths.ConfigFile, nil
}

func runConfigInit(c *cobra.Command, force bool) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return &ExitError{
			Code: ExitGeneralError,
			Err:  fmt.Errorf("config file already exists at %s (use --force to overwrite)", path),
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file created: %s\n", path)
	return nil
}

func runConfigVet(c *cobra.Command) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return &ExitError{Code: ExitNotFound, Err: fmt.Errorf("config file not found: %s", path)}
	}

	cfg, err := config.NewLoader().Load(path)
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}

	err = config.Validate(&config.ResolvedConfig{
		Namespace: config.ResolvedValue{Key: "namespace", Value: cfg.Namespace, Source: config.SourceConfig},
		Config:    cfg,
	})
	if verrs, ok := err.(config.ValidationErrors); ok {
		fmt.Fprintln(c.ErrOrStderr(), "Error: config validation failed")
		fmt.Fprintf(c.ErrOrStderr(), "  File: %s\n\n", path)
		for _, e := range verrs {
			fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
		}
		return &ExitError{Code: ExitValidationError, Err: err, Printed: true}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file is valid: %s\n", path)
	return nil
}
