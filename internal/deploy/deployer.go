package deploy

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kubeless/serverless-deploy/internal/artifact"
	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// Options configures a deployment run.
type Options struct {
	// Namespace is the namespace every Function is created in.
	Namespace string

	// DryRun submits with server-side dry run and skips verification.
	DryRun bool

	// Concurrency bounds how many functions are processed at once.
	// Values below 1 mean sequential.
	Concurrency int
}

// Deployer deploys a set of functions against one cluster.
type Deployer struct {
	cluster  Cluster
	resolver *artifact.Resolver
	opts     Options
}

// NewDeployer creates a deployer. The resolver's source and archive cache
// belong to this run and must not be shared with another.
func NewDeployer(cluster Cluster, resolver *artifact.Resolver, opts Options) *Deployer {
	return &Deployer{cluster: cluster, resolver: resolver, opts: opts}
}

// DeployAll deploys every function and returns once all of them are
// terminal. Per-function failures are collected in the report, never
// returned early.
func (d *Deployer) DeployAll(ctx context.Context, configs []function.Config) *Report {
	report := newReport(uuid.NewString(), len(configs))
	output.Debug("starting deployment",
		"run", report.RunID,
		"functions", len(configs),
		"namespace", d.opts.Namespace,
		"source", d.resolver.Source().Location(),
	)

	limit := d.opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, cfg := range configs {
		g.Go(func() error {
			report.record(i, d.deployOne(ctx, cfg, report.RunID))
			return nil
		})
	}
	_ = g.Wait()

	output.Debug("deployment finished", "run", report.RunID, "completed", report.Completed(), "total", report.Total())
	return report
}

// deployOne drives a single function to a terminal state.
func (d *Deployer) deployOne(ctx context.Context, cfg function.Config, runID string) Result {
	logger := output.FunctionLogger(cfg.Name).With("run", runID)
	res := Result{Name: cfg.Name, Namespace: d.opts.Namespace, DryRun: d.opts.DryRun}

	transition := func(s State) {
		logger.Debug("state", "state", s)
	}
	fail := func(msg string) Result {
		res.State = StateFailed
		res.Message = msg
		transition(StateFailed)
		transition(StateDone)
		return res
	}

	transition(StateResolving)
	resolved, err := d.resolver.Resolve(ctx, cfg)
	if err != nil {
		logger.Debug("artifact resolution failed", "error", err)
		return fail(err.Error())
	}
	logger.Debug("handler source loaded",
		"path", resolved.Pair.HandlerPath,
		"bytes", len(resolved.HandlerContent),
	)

	transition(StateBuilding)
	desc := function.Build(cfg, resolved.HandlerContent, resolved.DepsContent, d.opts.Namespace)
	res.Descriptor = &desc

	transition(StateSubmitting)
	res.Outcome = Submit(ctx, d.cluster, desc, d.opts.DryRun)

	switch res.Outcome.Kind {
	case OutcomeAlreadyExists:
		res.State = StateAlreadyExists
		transition(StateAlreadyExists)
		logger.Info(output.FormatResourceLine(function.Kind, desc.Namespace, desc.Name, res.Status()))
		logger.Info("The function " + cfg.Name + " is already deployed. Remove it if you want to deploy it again.")
	case OutcomeFailed:
		logger.Error(output.FormatResourceLine(function.Kind, desc.Namespace, desc.Name, output.StatusFailed))
		return fail(res.Outcome.FailureMessage(cfg.Name))
	default:
		res.State = StateCreated
		transition(StateCreated)
		logger.Info(output.FormatResourceLine(function.Kind, desc.Namespace, desc.Name, res.Status()))
		if !d.opts.DryRun {
			res.Pod = d.verify(ctx, logger, desc, transition)
		}
		logger.Info("Function " + cfg.Name + " successfully deployed")
	}

	transition(StateDone)
	return res
}

func (d *Deployer) verify(ctx context.Context, logger *log.Logger, desc function.Descriptor, transition func(State)) string {
	transition(StateVerifying)
	pod, ok := Verify(ctx, d.cluster, desc.Name, desc.Namespace)
	if !ok {
		return ""
	}
	logger.Info("deployed pod", "pod", pod)
	return pod
}
