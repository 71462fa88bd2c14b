package deploy

import (
	"strings"
	"sync"

	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/output"
)

// aggregatePrefix heads the aggregate failure message.
const aggregatePrefix = "Found errors while deploying the given functions:\n"

// Result is the terminal record of one function.
type Result struct {
	// Name is the function name.
	Name string

	// Namespace is the submission namespace.
	Namespace string

	// State is the terminal state: StateCreated, StateAlreadyExists or
	// StateFailed.
	State State

	// Outcome is the submission outcome. Zero when the function failed
	// before submission.
	Outcome Outcome

	// Descriptor is the built Function, nil when resolution failed.
	Descriptor *function.Descriptor

	// Pod is the verified pod name, empty when none was found.
	Pod string

	// DryRun is set when the submission was a server-side dry run.
	DryRun bool

	// Message is the failure message for StateFailed.
	Message string
}

// Status returns the display status used in resource lines and tables.
func (r Result) Status() string {
	switch r.State {
	case StateCreated:
		if r.DryRun {
			return output.StatusDryRun
		}
		return output.StatusCreated
	case StateAlreadyExists:
		return output.StatusExists
	default:
		return output.StatusFailed
	}
}

// Report collects per-function results in configuration order.
type Report struct {
	// RunID correlates the log lines of one invocation.
	RunID string

	mu        sync.Mutex
	results   []Result
	completed int
}

func newReport(runID string, total int) *Report {
	return &Report{RunID: runID, results: make([]Result, total)}
}

// record stores the terminal result of the function at index i.
func (r *Report) record(i int, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[i] = res
	r.completed++
}

// Results returns a copy of the results in configuration order.
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Completed returns how many functions reached a terminal state.
func (r *Report) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Total returns the number of configured functions.
func (r *Report) Total() int {
	return len(r.results)
}

// Err returns nil when every function was created or already existed,
// otherwise an *AggregateError with the failure messages in configuration
// order.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []string
	for _, res := range r.results {
		if res.State == StateFailed {
			messages = append(messages, res.Message)
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &AggregateError{Messages: messages}
}

// AggregateError joins the failures of a deployment run.
type AggregateError struct {
	Messages []string
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	return aggregatePrefix + strings.Join(e.Messages, "\n")
}
