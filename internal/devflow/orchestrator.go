// Package devflow is the development-workflow sub-orchestrator: it matches
// requests against a catalog of multi-step workflows, plans them, and runs
// them step by step across the agents execution boundary.
package devflow

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/internal/agents"
	"github.com/dnalang/aura-orchestrator/internal/intent"
	"github.com/dnalang/aura-orchestrator/internal/plan"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// ProcessResult is the outcome of handling one development request.
// Workflow is nil when the request did not match a catalog workflow; the
// orchestration plan alone still describes how to handle it.
type ProcessResult struct {
	Intent      models.Intent             `json:"intent"`
	Plan        *models.OrchestrationPlan `json:"plan"`
	Workflow    *models.DevWorkflow       `json:"workflow,omitempty"`
	Artifacts   []models.CodeArtifact     `json:"artifacts"`
	Suggestions []string                  `json:"suggestions"`
}

// Orchestrator handles development requests.
type Orchestrator struct {
	classifier *intent.Classifier
	builder    *plan.Builder
	executor   agents.Executor
}

// NewOrchestrator creates a dev sub-orchestrator executing steps through exec.
func NewOrchestrator(classifier *intent.Classifier, builder *plan.Builder, exec agents.Executor) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		builder:    builder,
		executor:   exec,
	}
}

// Process classifies the request, builds an orchestration plan, and checks
// whether the request matches a catalog workflow.
func (o *Orchestrator) Process(input string) (*ProcessResult, error) {
	it := o.classifier.Classify(input)

	p, err := o.builder.Build(it, input)
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}

	workflow := matchWorkflow(input)

	return &ProcessResult{
		Intent:      it,
		Plan:        p,
		Workflow:    workflow,
		Artifacts:   []models.CodeArtifact{},
		Suggestions: buildSuggestions(it, workflow),
	}, nil
}

// matchWorkflow maps free text onto a catalog workflow. Checks run in
// fixed priority order; the first hit wins.
func matchWorkflow(input string) *models.DevWorkflow {
	normalized := strings.ToLower(input)
	has := func(s string) bool { return strings.Contains(normalized, s) }

	var id string
	switch {
	case has("full stack") || has("feature"):
		id = "full-stack-feature"
	case has("api") && (has("endpoint") || has("route")):
		id = "api-endpoint"
	case has("bug") || has("fix") || has("debug"):
		id = "bug-fix"
	case has("refactor") || has("improve code"):
		id = "refactor"
	case has("deploy") || has("ci/cd") || has("pipeline"):
		id = "deployment-pipeline"
	default:
		return nil
	}

	w, _ := GetWorkflow(id)
	return &w
}

func buildSuggestions(it models.Intent, workflow *models.DevWorkflow) []string {
	var suggestions []string

	if it.Entities.Language == "" {
		suggestions = append(suggestions, "Specify a programming language (e.g., Python, TypeScript)")
	}
	if it.Entities.Framework == "" && it.Category == models.IntentCodeGeneration {
		suggestions = append(suggestions, "Specify a framework (e.g., FastAPI, Next.js)")
	}
	if workflow != nil {
		suggestions = append(suggestions,
			fmt.Sprintf("Using %s workflow with %d steps", workflow.Name, len(workflow.Steps)),
			fmt.Sprintf("Estimated completion: ~%d minutes", int(math.Round(float64(workflow.EstimatedTime)/60))),
		)
	}
	if it.Complexity == models.ComplexityComplex {
		suggestions = append(suggestions, "This is a complex task. Consider breaking it into smaller pieces.")
	}

	return suggestions
}

// StepCompleteFunc is invoked after each workflow step finishes
// successfully. May be nil.
type StepCompleteFunc func(step models.DevWorkflowStep, result models.AgentResult)

// ExecuteWorkflow runs a catalog workflow's steps sequentially in
// declaration order. A step whose dependencies have not completed is
// skipped with a recorded error and execution continues; a step whose
// execution fails aborts the rest of the workflow. Context cancellation
// between steps also aborts.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, workflowID string, execCtx map[string]interface{}, onStep StepCompleteFunc) (*models.WorkflowRunResult, error) {
	workflow, ok := GetWorkflow(workflowID)
	if !ok {
		return nil, fmt.Errorf("unknown workflow: %s", workflowID)
	}
	return o.runSteps(ctx, workflow, execCtx, onStep), nil
}

func (o *Orchestrator) runSteps(ctx context.Context, workflow models.DevWorkflow, execCtx map[string]interface{}, onStep StepCompleteFunc) *models.WorkflowRunResult {
	result := &models.WorkflowRunResult{
		Artifacts: []models.CodeArtifact{},
		Errors:    []string{},
	}
	completed := make(map[string]bool, len(workflow.Steps))

	for _, step := range workflow.Steps {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Step %s failed: %s", step.ID, err))
			break
		}

		ready := true
		for _, dep := range step.Dependencies {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if !ready {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot execute step %s: dependencies not met", step.ID))
			continue
		}

		res, err := o.executor.Execute(ctx, step.Agent, models.TaskSpec{
			Type:        step.ID,
			Description: step.Description,
			Context:     execCtx,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Step %s failed: %s", step.ID, err))
			break
		}

		completed[step.ID] = true
		// Artifacts stay empty under the mock executor; a real executor
		// would surface generated files through res.Output.
		if onStep != nil {
			onStep(step, res)
		}

		log.Debug().
			Str("workflow", workflow.ID).
			Str("step", step.ID).
			Str("agent", string(step.Agent)).
			Msg("workflow step completed")
	}

	result.Success = len(result.Errors) == 0
	return result
}
