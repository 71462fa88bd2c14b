package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubeless/serverless-deploy/internal/output"
	"github.com/kubeless/serverless-deploy/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show kubeless-deploy version information.

Displays:
  - kubeless-deploy version, commit, and build date
  - Go, client-go and CUE SDK versions compiled in`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runVersion(c, format)
		},
	}

	c.Flags().StringVarP(&format, "output", "o", "", "Output format: json")

	return c
}

func runVersion(c *cobra.Command, format string) error {
	info := version.GetInfo()

	switch format {
	case "":
		output.Println(info.String())
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding version: %w", err)
		}
		fmt.Fprintln(c.OutOrStdout(), string(data))
	default:
		return &ExitError{Code: ExitValidationError, Err: fmt.Errorf("invalid output format %q (valid: json)", format)}
	}

	return nil
}
