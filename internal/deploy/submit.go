package deploy

import (
	"context"
	"fmt"

	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
)

// OutcomeKind classifies a submission.
type OutcomeKind int

const (
	// OutcomeCreated means the cluster accepted the Function.
	OutcomeCreated OutcomeKind = iota
	// OutcomeAlreadyExists means a Function with the same name exists. It
	// is reported but is not an error.
	OutcomeAlreadyExists
	// OutcomeFailed carries the cluster's status code and message.
	OutcomeFailed
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already-exists"
	default:
		return "failed"
	}
}

// Outcome is the result of one submission.
type Outcome struct {
	Kind OutcomeKind

	// Code is the API status code of a failure, 0 when the request never
	// reached the API server.
	Code int32

	// Message is the failure message as returned by the cluster.
	Message string
}

// FailureMessage formats a failed outcome for the aggregate error.
func (o Outcome) FailureMessage(name string) string {
	return fmt.Sprintf("Unable to deploy the function %s. Received:\n  Code: %d\n  Message: %s", name, o.Code, o.Message)
}

// Submit creates the Function described by desc. It issues exactly one
// create call and never updates or retries.
func Submit(ctx context.Context, cluster Cluster, desc function.Descriptor, dryRun bool) Outcome {
	err := cluster.CreateFunction(ctx, desc.Object(), kubernetes.CreateOptions{DryRun: dryRun})
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeCreated}
	case kubernetes.IsAlreadyExists(err):
		return Outcome{Kind: OutcomeAlreadyExists}
	}

	code, message := kubernetes.StatusCode(err)
	return Outcome{Kind: OutcomeFailed, Code: code, Message: message}
}
