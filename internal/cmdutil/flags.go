// Package cmdutil provides shared command utilities for the deploy and diff
// commands. It centralizes flag group management, service loading and
// Kubernetes client creation.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubeless/serverless-deploy/internal/output"
)

// unsupportedOptions are accepted for compatibility with serverless
// invocations but have no effect.
var unsupportedOptions = []string{"stage", "region"}

// ServiceFlags holds flags common to commands that load a service
// (deploy, diff).
type ServiceFlags struct {
	ServicePath string
	File        string
	Package     string
	Functions   []string
	Stage       string
	Region      string
}

// AddTo registers the service flags on the given cobra command.
func (f *ServiceFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ServicePath, "service-path", ".",
		"Service directory; handler files are read from here when no package is used")
	cmd.Flags().StringVarP(&f.File, "file", "f", "",
		"Service manifest (default: serverless.yml in the service path)")
	cmd.Flags().StringVar(&f.Package, "package", "",
		"Packaged zip archive (default: package.path from the manifest)")
	cmd.Flags().StringArrayVar(&f.Functions, "function", nil,
		"Function to process (can be repeated; default: all)")
	cmd.Flags().StringVarP(&f.Stage, "stage", "s", "",
		"Unsupported; accepted for compatibility")
	cmd.Flags().StringVarP(&f.Region, "region", "r", "",
		"Unsupported; accepted for compatibility")
}

// WarnUnsupported logs a warning for every unsupported option that was set.
// It returns the names it warned about.
func WarnUnsupported(cmd *cobra.Command) []string {
	var warned []string
	for _, name := range unsupportedOptions {
		if cmd.Flags().Changed(name) {
			output.Warn(fmt.Sprintf("Warning: Option %s is not supported for the kubeless plugin", name))
			warned = append(warned, name)
		}
	}
	return warned
}
