package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeless/serverless-deploy/internal/artifact"
	"github.com/kubeless/serverless-deploy/internal/cmdutil"
	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// diffOptions holds the flags for the diff command.
type diffOptions struct {
	service cmdutil.ServiceFlags
	noColor bool
}

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	opts := &diffOptions{}

	c := &cobra.Command{
		Use:   "diff",
		Short: "Show differences between the service and deployed Functions",
		Long: `Build the Function resources exactly as deploy does and compare them with
the live objects in the cluster. Nothing is created or changed.

deploy never updates an existing Function, so a function listed as differing
has to be removed before deploying it again.

Exit codes:
  0 - No differences found
  1 - Differences exist or an error occurred
  2 - Validation error (invalid manifest or runtime)
  3 - Cannot connect to cluster
  5 - Manifest or handler file not found`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, opts)
		},
	}

	opts.service.AddTo(c)
	c.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return c
}

func runDiff(c *cobra.Command, opts *diffOptions) error {
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

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	objects, err := buildObjects(ctx, loaded.Resolver, loaded.Configs, namespace)
	if err != nil {
		return exitError(err, false)
	}

	output.Info(fmt.Sprintf("comparing service %s against namespace %s", loaded.Service.Name, namespace))

	var result *kubernetes.DiffResult
	err = output.RunWithSpinner(ctx, func() error {
		var diffErr error
		result, diffErr = client.Diff(ctx, objects, kubernetes.DiffOptions{UseColor: !opts.noColor && output.IsTTY()})
		return diffErr
	}, output.WithTitle("Fetching live Functions"))
	if err != nil {
		return exitError(fmt.Errorf("computing diff: %w", err), false)
	}

	modified := make([]output.ModifiedItem, len(result.Modified))
	for i, m := range result.Modified {
		modified[i] = output.ModifiedItem{Name: m.Name, Diff: m.Diff}
	}
	fmt.Fprint(c.OutOrStdout(), output.RenderDiff(result.Added, modified, result.Unchanged))

	if result.HasChanges() {
		// diff(1) convention
		return &ExitError{Code: ExitGeneralError, Err: errors.New("differences found"), Printed: true}
	}
	return nil
}

// buildObjects resolves and builds every function the way deploy does.
// The first resolution failure aborts the diff.
func buildObjects(ctx context.Context, resolver *artifact.Resolver, configs []function.Config, namespace string) ([]*unstructured.Unstructured, error) {
	objects := make([]*unstructured.Unstructured, 0, len(configs))
	for _, cfg := range configs {
		res, err := resolver.Resolve(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", cfg.Name, err)
		}
		desc := function.Build(cfg, res.HandlerContent, res.DepsContent, namespace)
		objects = append(objects, desc.Object())
	}
	return objects, nil
}
