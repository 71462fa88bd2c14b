// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubeless/serverless-deploy/internal/config"
	"github.com/kubeless/serverless-deploy/internal/output"
)

var (
	// Global flags
	kubeconfigFlag string
	contextFlag    string
	namespaceFlag  string
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Resolved configuration (loaded during PersistentPreRunE)
	resolvedConfig *config.ResolvedConfig
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kubeless-deploy",
		Short: "Deploy serverless functions to Kubeless",
		Long: `kubeless-deploy creates Kubeless Function resources for the functions of a
serverless service and confirms each deployment by locating its pod.

Handler sources are read from the packaged service archive when one is
configured, otherwise from the service directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&kubeconfigFlag, "kubeconfig", "", "Path to kubeconfig file (env: KUBELESS_KUBECONFIG)")
	rootCmd.PersistentFlags().StringVar(&contextFlag, "context", "", "Kubernetes context to use (env: KUBELESS_CONTEXT)")
	rootCmd.PersistentFlags().StringVarP(&namespaceFlag, "namespace", "n", "", "Namespace to deploy to (env: KUBELESS_NAMESPACE)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: KUBELESS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals resolves configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command) error {
	// Verbose logging is needed while resolving.
	output.SetupLogging(output.LogConfig{Verbose: verboseFlag})

	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:     configFlag,
		KubeconfigFlag: kubeconfigFlag,
		ContextFlag:    contextFlag,
		NamespaceFlag:  namespaceFlag,
	})
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}
	resolvedConfig = resolved

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if resolved.Config != nil && resolved.Config.Log.Timestamps != nil {
		logCfg.Timestamps = resolved.Config.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		config.LogResolvedValues(resolved.Values())
	}

	return nil
}

// GetResolvedConfig returns the resolved configuration.
func GetResolvedConfig() *config.ResolvedConfig {
	return resolvedConfig
}
