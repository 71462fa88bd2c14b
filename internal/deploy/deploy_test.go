package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/kubeless/serverless-deploy/internal/function"
	"github.com/kubeless/serverless-deploy/internal/kubernetes"
	"github.com/kubeless/serverless-deploy/internal/output"
)

var functionsGR = schema.GroupResource{Group: function.Group, Resource: function.Resource}

func helloDescriptor() function.Descriptor {
	return function.Build(function.Config{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}, "X", "", "default")
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    OutcomeKind
		wantCode    int32
		wantMessage string
	}{
		{
			name:     "created",
			wantKind: OutcomeCreated,
		},
		{
			name:     "already exists",
			err:      apierrors.NewAlreadyExists(functionsGR, "hello"),
			wantKind: OutcomeAlreadyExists,
		},
		{
			name:     "bare conflict",
			err:      apierrors.NewConflict(functionsGR, "hello", errors.New("conflict")),
			wantKind: OutcomeAlreadyExists,
		},
		{
			name:        "server error",
			err:         apierrors.NewInternalError(errors.New("etcd unavailable")),
			wantKind:    OutcomeFailed,
			wantCode:    500,
			wantMessage: "Internal error occurred: etcd unavailable",
		},
		{
			name:        "transport error",
			err:         errors.New("connection refused"),
			wantKind:    OutcomeFailed,
			wantCode:    0,
			wantMessage: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cluster := &recordingCluster{createErr: func(string) error { return tt.err }}

			got := Submit(context.Background(), cluster, helloDescriptor(), false)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
			require.Len(t, cluster.created, 1)
			assert.Equal(t, "hello", cluster.created[0].GetName())
		})
	}
}

func TestOutcome_FailureMessage(t *testing.T) {
	o := Outcome{Kind: OutcomeFailed, Code: 500, Message: "boom"}
	assert.Equal(t, "Unable to deploy the function hello. Received:\n  Code: 500\n  Message: boom", o.FailureMessage("hello"))
}

func TestVerify(t *testing.T) {
	pods := []kubernetes.Pod{
		{Name: "other-1", Labels: map[string]string{FunctionLabel: "other"}},
		{Name: "unlabelled"},
		{Name: "hello-7f9c", Labels: map[string]string{FunctionLabel: "hello"}},
		{Name: "hello-8a1b", Labels: map[string]string{FunctionLabel: "hello"}},
	}

	t.Run("first matching pod", func(t *testing.T) {
		pod, ok := Verify(context.Background(), &recordingCluster{pods: pods}, "hello", "default")
		assert.True(t, ok)
		assert.Equal(t, "hello-7f9c", pod)
	})

	t.Run("no matching pod", func(t *testing.T) {
		pod, ok := Verify(context.Background(), &recordingCluster{pods: pods}, "missing", "default")
		assert.False(t, ok)
		assert.Empty(t, pod)
	})

	t.Run("list failure", func(t *testing.T) {
		pod, ok := Verify(context.Background(), &recordingCluster{listErr: errors.New("forbidden")}, "hello", "default")
		assert.False(t, ok)
		assert.Empty(t, pod)
	})
}

func TestDeployAll_UnsupportedRuntime(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"handler.js": "module.exports = {}"})
	cluster := &recordingCluster{}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "nodejs6"}})

	assert.Zero(t, cluster.calls())
	results := report.Results()
	require.Len(t, results, 1)
	assert.Equal(t, StateFailed, results[0].State)
	assert.Nil(t, results[0].Descriptor)

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestDeployAll_MissingHandler(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"requirements.txt": "requests"})
	cluster := &recordingCluster{}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "python2.7"}})

	assert.Zero(t, cluster.calls())
	assert.Equal(t, 1, report.Completed())

	var agg *AggregateError
	require.ErrorAs(t, report.Err(), &agg)
	require.Len(t, agg.Messages, 1)
	assert.Contains(t, agg.Messages[0], "handler.py")
}

func TestDeployAll_AlreadyExists(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"handler.py": "X"})
	cluster := &recordingCluster{createErr: func(name string) error {
		return apierrors.NewAlreadyExists(functionsGR, name)
	}}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}})

	require.NoError(t, report.Err())
	results := report.Results()
	assert.Equal(t, StateAlreadyExists, results[0].State)
	assert.Equal(t, output.StatusExists, results[0].Status())
	assert.Zero(t, cluster.lists, "verification runs only after a create")
}

func TestDeployAll_ServerError(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"handler.py": "X"})
	cluster := &recordingCluster{createErr: func(string) error {
		return apierrors.NewInternalError(errors.New("quota exceeded"))
	}}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}})

	err := report.Err()
	require.Error(t, err)
	assert.Equal(t,
		"Found errors while deploying the given functions:\n"+
			"Unable to deploy the function hello. Received:\n  Code: 500\n  Message: Internal error occurred: quota exceeded",
		err.Error())
}

func TestDeployAll_MixedOutcomes(t *testing.T) {
	resolver, cache := archiveResolver(t, map[string]string{
		"handler.py": "X",
		"other.py":   "Y",
	})
	cluster := &recordingCluster{
		createErr: func(name string) error {
			switch name {
			case "exists":
				return apierrors.NewAlreadyExists(functionsGR, name)
			case "broken":
				return apierrors.NewBadRequest("invalid spec")
			}
			return nil
		},
		pods: []kubernetes.Pod{{Name: "fresh-abc", Labels: map[string]string{FunctionLabel: "fresh"}}},
	}

	configs := []function.Config{
		{Name: "fresh", Handler: "handler.hello", Runtime: "python3.6"},
		{Name: "exists", Handler: "handler.hello", Runtime: "python3.6"},
		{Name: "broken", Handler: "other.run", Runtime: "python3.6"},
		{Name: "ruby", Handler: "handler.hello", Runtime: "ruby2.4"},
	}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default", Concurrency: 4}).
		DeployAll(context.Background(), configs)

	assert.Equal(t, 4, report.Completed())
	assert.Equal(t, 4, report.Total())
	assert.Equal(t, 1, cache.Parses())

	results := report.Results()
	assert.Equal(t, StateCreated, results[0].State)
	assert.Equal(t, "fresh-abc", results[0].Pod)
	assert.Equal(t, StateAlreadyExists, results[1].State)
	assert.Equal(t, StateFailed, results[2].State)
	assert.Equal(t, StateFailed, results[3].State)

	var agg *AggregateError
	require.ErrorAs(t, report.Err(), &agg)
	require.Len(t, agg.Messages, 2)
	assert.Contains(t, agg.Messages[0], "Unable to deploy the function broken")
	assert.Contains(t, agg.Messages[0], "Code: 400")
	assert.Contains(t, agg.Messages[1], "the runtime ruby2.4 is not supported yet")
}

func TestDeployAll_DryRunSkipsVerification(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"handler.py": "X"})
	cluster := &recordingCluster{}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default", DryRun: true}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}})

	require.NoError(t, report.Err())
	assert.Equal(t, []bool{true}, cluster.dryRuns)
	assert.Zero(t, cluster.lists)
	assert.Equal(t, output.StatusDryRun, report.Results()[0].Status())
}

func TestDeployAll_Empty(t *testing.T) {
	resolver, _ := archiveResolver(t, map[string]string{"handler.py": "X"})

	report := NewDeployer(&recordingCluster{}, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), nil)

	assert.NoError(t, report.Err())
	assert.Zero(t, report.Total())
	assert.NotEmpty(t, report.RunID)
}

func TestDeployAll_ManyFunctionsConcurrently(t *testing.T) {
	resolver, cache := archiveResolver(t, map[string]string{"handler.py": "X"})
	cluster := &recordingCluster{}

	var configs []function.Config
	for i := 0; i < 20; i++ {
		configs = append(configs, function.Config{Name: fmt.Sprintf("fn-%02d", i), Handler: "handler.hello", Runtime: "python3.6"})
	}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default", Concurrency: 5}).
		DeployAll(context.Background(), configs)

	require.NoError(t, report.Err())
	assert.Equal(t, 20, report.Completed())
	assert.Equal(t, 1, cache.Parses())
	for i, res := range report.Results() {
		assert.Equal(t, configs[i].Name, res.Name)
		assert.Equal(t, StateCreated, res.State)
	}
}

func TestDeployAll_ConfirmsAfterPodLookup(t *testing.T) {
	var logs bytes.Buffer
	output.SetupLogging(output.LogConfig{Writer: &logs, Timestamps: output.BoolPtr(false)})
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })

	resolver, _ := archiveResolver(t, map[string]string{"handler.py": "X"})
	cluster := &recordingCluster{pods: []kubernetes.Pod{
		{Name: "hello-5d8f7", Labels: map[string]string{FunctionLabel: "hello"}},
	}}

	report := NewDeployer(cluster, resolver, Options{Namespace: "default"}).
		DeployAll(context.Background(), []function.Config{{Name: "hello", Handler: "handler.hello", Runtime: "python3.6"}})
	require.NoError(t, report.Err())

	out := logs.String()
	podAt := strings.Index(out, "hello-5d8f7")
	doneAt := strings.Index(out, "Function hello successfully deployed")
	require.NotEqual(t, -1, podAt, out)
	require.NotEqual(t, -1, doneAt, out)
	assert.Less(t, podAt, doneAt, "confirmation follows the pod lookup")
}
