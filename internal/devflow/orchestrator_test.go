package devflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnalang/aura-orchestrator/internal/agents"
	"github.com/dnalang/aura-orchestrator/internal/intent"
	"github.com/dnalang/aura-orchestrator/internal/plan"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// failingExecutor fails every step whose ID is in failOn and records the
// order in which steps were attempted.
type failingExecutor struct {
	failOn    map[string]bool
	attempted []string
}

func (f *failingExecutor) Execute(_ context.Context, agent models.Agent, task models.TaskSpec) (models.AgentResult, error) {
	f.attempted = append(f.attempted, task.Type)
	if f.failOn[task.Type] {
		return models.AgentResult{Agent: agent, TaskType: task.Type}, errors.New("boom")
	}
	return models.AgentResult{Agent: agent, TaskType: task.Type, Success: true}, nil
}

func newTestOrchestrator(exec agents.Executor) *Orchestrator {
	return NewOrchestrator(intent.NewClassifier(), plan.NewBuilder(), exec)
}

func TestProcessMatchesBugFixWorkflow(t *testing.T) {
	o := newTestOrchestrator(agents.NewMockExecutor())

	res, err := o.Process("Fix the login bug in the authentication service")
	require.NoError(t, err)

	assert.Equal(t, models.IntentDebugging, res.Intent.Category)
	require.NotNil(t, res.Workflow)
	assert.Equal(t, "bug-fix", res.Workflow.ID)
	require.NotNil(t, res.Plan)
	assert.NotEmpty(t, res.Plan.ExecutionOrder)
	assert.Contains(t, res.Suggestions, "Using Bug Diagnosis and Fix workflow with 4 steps")
	assert.Contains(t, res.Suggestions, "Estimated completion: ~3 minutes")
}

func TestProcessNoWorkflowMatch(t *testing.T) {
	o := newTestOrchestrator(agents.NewMockExecutor())

	res, err := o.Process("Write a quicksort in go")
	require.NoError(t, err)
	assert.Nil(t, res.Workflow)
	require.NotNil(t, res.Plan)
	assert.Empty(t, res.Artifacts)
}

func TestProcessSuggestsMissingEntities(t *testing.T) {
	o := newTestOrchestrator(agents.NewMockExecutor())

	// No language, no framework, code_generation intent.
	res, err := o.Process("Write a small utility")
	require.NoError(t, err)
	assert.Contains(t, res.Suggestions, "Specify a programming language (e.g., Python, TypeScript)")
	assert.Contains(t, res.Suggestions, "Specify a framework (e.g., FastAPI, Next.js)")
}

func TestMatchWorkflowPriorityOrder(t *testing.T) {
	// "feature" outranks "api endpoint" even when both appear.
	w := matchWorkflow("Add a feature exposing a new api endpoint")
	require.NotNil(t, w)
	assert.Equal(t, "full-stack-feature", w.ID)

	w = matchWorkflow("add an api route")
	require.NotNil(t, w)
	assert.Equal(t, "api-endpoint", w.ID)

	w = matchWorkflow("set up the ci/cd for the repo")
	require.NotNil(t, w)
	assert.Equal(t, "deployment-pipeline", w.ID)

	assert.Nil(t, matchWorkflow("tell me a joke"))
}

func TestExecuteWorkflowAllStepsSucceed(t *testing.T) {
	exec := &failingExecutor{}
	o := newTestOrchestrator(exec)

	res, err := o.ExecuteWorkflow(context.Background(), "api-endpoint", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"plan", "implementation", "tests", "docs"}, exec.attempted)
}

func TestExecuteWorkflowUnknownID(t *testing.T) {
	o := newTestOrchestrator(agents.NewMockExecutor())

	_, err := o.ExecuteWorkflow(context.Background(), "nope", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow")
}

func TestExecuteWorkflowAbortsOnStepFailure(t *testing.T) {
	exec := &failingExecutor{failOn: map[string]bool{"diagnose": true}}
	o := newTestOrchestrator(exec)

	res, err := o.ExecuteWorkflow(context.Background(), "bug-fix", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Step diagnose failed")
	// fix and test never run after the abort.
	assert.Equal(t, []string{"analyze", "diagnose"}, exec.attempted)
}

func TestRunStepsSkipsUnmetDependenciesAndContinues(t *testing.T) {
	exec := &failingExecutor{}
	o := newTestOrchestrator(exec)

	// A step declared before its dependency is skipped, not aborted, and
	// later independent steps still run.
	wf := models.DevWorkflow{
		ID: "out-of-order",
		Steps: []models.DevWorkflowStep{
			{ID: "later", Dependencies: []string{"first"}},
			{ID: "first", Dependencies: nil},
			{ID: "second", Dependencies: []string{"first"}},
		},
	}

	res := o.runSteps(context.Background(), wf, nil, nil)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Cannot execute step later: dependencies not met", res.Errors[0])
	assert.Equal(t, []string{"first", "second"}, exec.attempted)
}

func TestExecuteWorkflowStepCallback(t *testing.T) {
	exec := &failingExecutor{failOn: map[string]bool{"diagnose": true}}
	o := newTestOrchestrator(exec)

	var notified []string
	onStep := func(step models.DevWorkflowStep, result models.AgentResult) {
		notified = append(notified, step.ID)
		assert.True(t, result.Success)
	}

	res, err := o.ExecuteWorkflow(context.Background(), "bug-fix", nil, onStep)
	require.NoError(t, err)
	assert.False(t, res.Success)
	// Only the step that completed fires the callback.
	assert.Equal(t, []string{"analyze"}, notified)
}

func TestExecuteWorkflowCancelledContext(t *testing.T) {
	exec := &failingExecutor{}
	o := newTestOrchestrator(exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := o.ExecuteWorkflow(ctx, "refactor", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "context canceled")
	assert.Empty(t, exec.attempted)
}

func TestCatalogWorkflows(t *testing.T) {
	all := ListWorkflows()
	require.Len(t, all, 5)

	wf, ok := GetWorkflow("bug-fix")
	require.True(t, ok)
	require.Len(t, wf.Steps, 4)
	assert.False(t, wf.Steps[2].AutoExecute, "fix step requires approval")
	assert.Equal(t, 180, wf.EstimatedTime)

	_, ok = GetWorkflow("missing")
	assert.False(t, ok)
}
