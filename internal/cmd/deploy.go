package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeless/serverless-deploy/internal/cmdutil"
	"github.com/kubeless/serverless-deploy/internal/config"
	"github.com/kubeless/serverless-deploy/internal/deploy"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// deployOptions holds the flags for the deploy command.
type deployOptions struct {
	service     cmdutil.ServiceFlags
	dryRun      bool
	concurrency int
	timeout     time.Duration
	output      string
}

// NewDeployCmd creates the deploy command.
func NewDeployCmd() *cobra.Command {
	opts := &deployOptions{}

	c := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the functions of a service",
		Long: `Create a Kubeless Function resource for every function of the service
and confirm each deployment by locating its pod.

A function that already exists is reported and left untouched. Failures of
individual functions do not stop the others; they are reported together
once every function has finished.

Examples:
  # Deploy every function of the service in the current directory
  kubeless-deploy deploy

  # Deploy one function from a packaged archive into a namespace
  kubeless-deploy deploy --function hello --package .serverless/svc.zip -n functions

  # Show the Function resources without persisting them
  kubeless-deploy deploy --dry-run -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runDeploy(c, opts)
		},
	}

	opts.service.AddTo(c)
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Submit with server-side dry run and skip verification")
	c.Flags().IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Number of functions deployed at once")
	c.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the deployment after this duration (0 = no timeout)")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "Print results: yaml, json (built Functions) or table")

	return c
}

func runDeploy(c *cobra.Command, opts *deployOptions) error {
	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return &ExitError{Code: ExitValidationError, Err: err}
	}

	cmdutil.WarnUnsupported(c)

	loaded, err := cmdutil.LoadService(&opts.service)
	if err != nil {
		return exitError(err, false)
	}

	resolved := GetResolvedConfig()
	client, err := cmdutil.NewK8sClient(resolved)
	if err != nil {
		return &ExitError{Code: ExitConnectivityError, Err: err}
	}
	namespace := cmdutil.ResolveNamespace(resolved, client)

	deployer := deploy.NewDeployer(client, loaded.Resolver, deploy.Options{
		Namespace:   namespace,
		DryRun:      opts.dryRun,
		Concurrency: deployConcurrency(c, opts, resolved),
	})

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var report *deploy.Report
	run := func() error {
		report = deployer.DeployAll(ctx, loaded.Configs)
		return nil
	}
	if verboseFlag {
		_ = run()
	} else {
		title := fmt.Sprintf("Deploying %d function(s) of %s", len(loaded.Configs), loaded.Service.Name)
		if err := output.RunWithSpinner(ctx, run, output.WithTitle(title)); err != nil {
			return exitError(err, false)
		}
	}

	if err := writeDeployOutput(c, report, format); err != nil {
		return exitError(err, false)
	}

	if err := report.Err(); err != nil {
		output.Error(err.Error())
		failed := lo.CountBy(report.Results(), func(r deploy.Result) bool { return r.State == deploy.StateFailed })
		printSummary(format, output.FormatCross(fmt.Sprintf("%d of %d function(s) failed", failed, report.Total())))
		return &ExitError{Code: ExitGeneralError, Err: err, Printed: true}
	}

	printSummary(format, output.FormatCheckmark(deploySummary(report)))
	return nil
}

// printSummary keeps stdout parseable when it carries manifests: the
// summary goes to the log on stderr for yaml and json output.
func printSummary(format output.Format, line string) {
	switch format {
	case output.FormatYAML, output.FormatJSON:
		output.Info(line)
	default:
		output.Println(line)
	}
}

// deployConcurrency resolves --concurrency: flag if set, else config.
func deployConcurrency(c *cobra.Command, opts *deployOptions, resolved *config.ResolvedConfig) int {
	if c.Flags().Changed("concurrency") {
		return opts.concurrency
	}
	if resolved != nil && resolved.Config != nil && resolved.Config.Deploy.Concurrency > 0 {
		return resolved.Config.Deploy.Concurrency
	}
	return opts.concurrency
}

func writeDeployOutput(c *cobra.Command, report *deploy.Report, format output.Format) error {
	results := report.Results()

	switch format {
	case output.FormatYAML, output.FormatJSON:
		objects := lo.FilterMap(results, func(r deploy.Result, _ int) (*unstructured.Unstructured, bool) {
			if r.Descriptor == nil {
				return nil, false
			}
			return r.Descriptor.Object(), true
		})
		return output.WriteManifests(objects, format, c.OutOrStdout())
	case output.FormatTable:
		rows := lo.Map(results, func(r deploy.Result, _ int) output.FunctionStatus {
			return output.FunctionStatus{
				Name:      r.Name,
				Namespace: r.Namespace,
				Status:    r.Status(),
				Pod:       r.Pod,
				Message:   firstLine(r.Message),
			}
		})
		fmt.Fprintln(c.OutOrStdout(), output.RenderFunctionTable(rows))
	}
	return nil
}

func deploySummary(report *deploy.Report) string {
	results := report.Results()
	created := lo.CountBy(results, func(r deploy.Result) bool { return r.State == deploy.StateCreated })
	exists := lo.CountBy(results, func(r deploy.Result) bool { return r.State == deploy.StateAlreadyExists })
	return fmt.Sprintf("%d function(s) processed: %d created, %d already deployed", report.Total(), created, exists)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
