// Package plan builds multi-agent orchestration plans from classified
// intents and schedules their execution order.
//
// The builder is a pure dispatch table: each intent category has a fixed
// task template (agent sequence, per-task parameters drawn from the intent's
// entities, and an agent-level dependency chain). Templates never create two
// tasks for the same agent, which is what makes agent-granularity
// dependencies unambiguous; Build validates that invariant.
package plan

import (
	"fmt"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// Builder constructs orchestration plans. Stateless; share freely.
type Builder struct{}

// NewBuilder creates a plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build creates a full orchestration plan for the intent, including the
// topological execution order and the duration estimate. It returns an
// error only if a template produces an unschedulable task graph, which
// would be a programming error in the template itself.
func (b *Builder) Build(it models.Intent, input string) (*models.OrchestrationPlan, error) {
	tasks := b.tasksFor(it, input)

	if err := validateSingleTaskPerAgent(tasks); err != nil {
		return nil, err
	}

	order, err := Order(tasks)
	if err != nil {
		return nil, fmt.Errorf("order tasks: %w", err)
	}

	return &models.OrchestrationPlan{
		Intent:            it,
		Tasks:             tasks,
		ExecutionOrder:    order,
		EstimatedDuration: EstimateDuration(tasks),
		RequiresApproval:  it.Complexity == models.ComplexityComplex,
	}, nil
}

// tasksFor dispatches to the per-category template. Categories without
// specialized handling degrade to a minimal single-task plan.
func (b *Builder) tasksFor(it models.Intent, input string) []models.AgentTask {
	switch it.Category {
	case models.IntentQuantumExperiment, models.IntentQuantumCircuit:
		return quantumTasks(it, input)
	case models.IntentCodeGeneration:
		return codeGenerationTasks(it, input)
	case models.IntentCodeReview:
		return codeReviewTasks(it, input)
	case models.IntentDebugging:
		return debuggingTasks(it, input)
	case models.IntentArchitectureDesign, models.IntentSystemDesign:
		return architectureTasks(it, input)
	case models.IntentDataAnalysis:
		return dataAnalysisTasks(input)
	case models.IntentTesting:
		return testingTasks(input)
	case models.IntentDocumentation:
		return documentationTasks(input)
	case models.IntentDeployment:
		return deploymentTasks(input)
	case models.IntentResearch:
		return researchTasks(input)
	default:
		return fallbackTasks(input)
	}
}

func intentContext(it models.Intent) map[string]interface{} {
	return map[string]interface{}{"intent": it}
}

func quantumTasks(it models.Intent, input string) []models.AgentTask {
	backend := it.Entities.Backend
	if backend == "" {
		backend = "ibm_osaka"
	}

	return []models.AgentTask{
		{
			Agent: models.AgentPlanner,
			Task: models.TaskSpec{
				Type:        "quantum_experiment_planning",
				Description: input,
				Context:     intentContext(it),
				Parameters: map[string]interface{}{
					"backend":    backend,
					"complexity": it.Complexity,
				},
			},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentQuantum,
			Task: models.TaskSpec{
				Type:        "quantum_execution",
				Description: input,
				Parameters: map[string]interface{}{
					"backend": backend,
					"shots":   1024,
				},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
		{
			Agent: models.AgentWorldModel,
			Task: models.TaskSpec{
				Type:        "integrate_quantum_results",
				Description: "Integrate quantum execution results into world model",
				Context:     map[string]interface{}{"source": "quantum_experiment"},
			},
			Priority:     8,
			Dependencies: []models.Agent{models.AgentQuantum},
		},
	}
}

func codeGenerationTasks(it models.Intent, input string) []models.AgentTask {
	language := it.Entities.Language
	if language == "" {
		language = "python"
	}

	return []models.AgentTask{
		{
			Agent: models.AgentPlanner,
			Task: models.TaskSpec{
				Type:        "implementation_planning",
				Description: input,
				Context:     intentContext(it),
				Parameters: map[string]interface{}{
					"language":  it.Entities.Language,
					"framework": it.Entities.Framework,
				},
			},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "code_generation",
				Description: input,
				Parameters: map[string]interface{}{
					"language":  language,
					"framework": it.Entities.Framework,
				},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
		{
			Agent: models.AgentSafety,
			Task: models.TaskSpec{
				Type:        "code_safety_check",
				Description: "Validate generated code for security issues",
			},
			Priority:     8,
			Dependencies: []models.Agent{models.AgentCoding},
		},
		{
			Agent: models.AgentIO,
			Task: models.TaskSpec{
				Type:        "output_code",
				Description: "Format and output generated code",
			},
			Priority:     7,
			Dependencies: []models.Agent{models.AgentSafety},
		},
	}
}

func codeReviewTasks(it models.Intent, input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent: models.AgentPlanner,
			Task: models.TaskSpec{
				Type:        "review_planning",
				Description: input,
				Context:     intentContext(it),
			},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "code_review",
				Description: input,
				Parameters:  map[string]interface{}{"focus": "security,performance,quality"},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
	}
}

func debuggingTasks(it models.Intent, input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent: models.AgentPlanner,
			Task: models.TaskSpec{
				Type:        "debug_planning",
				Description: input,
				Context:     intentContext(it),
			},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentWorldModel,
			Task: models.TaskSpec{
				Type:        "context_analysis",
				Description: "Analyze code context and error patterns",
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "debugging",
				Description: input,
				Parameters:  map[string]interface{}{"approach": "systematic"},
			},
			Priority:     8,
			Dependencies: []models.Agent{models.AgentWorldModel},
		},
	}
}

func architectureTasks(it models.Intent, input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent: models.AgentPlanner,
			Task: models.TaskSpec{
				Type:        "architecture_planning",
				Description: input,
				Context:     intentContext(it),
			},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "architecture_design",
				Description: input,
				Parameters:  map[string]interface{}{"include_diagrams": true},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
	}
}

func dataAnalysisTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent:        models.AgentPlanner,
			Task:         models.TaskSpec{Type: "analysis_planning", Description: input},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "data_analysis",
				Description: input,
				Parameters:  map[string]interface{}{"language": "python"},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
	}
}

func testingTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "test_generation",
				Description: input,
				Parameters:  map[string]interface{}{"coverage": "comprehensive"},
			},
			Priority:     10,
			Dependencies: nil,
		},
	}
}

func documentationTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "documentation",
				Description: input,
				Parameters:  map[string]interface{}{"format": "markdown"},
			},
			Priority:     10,
			Dependencies: nil,
		},
	}
}

func deploymentTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent:        models.AgentPlanner,
			Task:         models.TaskSpec{Type: "deployment_planning", Description: input},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentCoding,
			Task: models.TaskSpec{
				Type:        "deployment_config",
				Description: input,
				Parameters:  map[string]interface{}{"platform": "kubernetes"},
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentPlanner},
		},
	}
}

func researchTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent:        models.AgentMemory,
			Task:         models.TaskSpec{Type: "information_retrieval", Description: input},
			Priority:     10,
			Dependencies: nil,
		},
		{
			Agent: models.AgentWorldModel,
			Task: models.TaskSpec{
				Type:        "synthesis",
				Description: "Synthesize research findings",
			},
			Priority:     9,
			Dependencies: []models.Agent{models.AgentMemory},
		},
	}
}

func fallbackTasks(input string) []models.AgentTask {
	return []models.AgentTask{
		{
			Agent:        models.AgentCoding,
			Task:         models.TaskSpec{Type: "general_task", Description: input},
			Priority:     10,
			Dependencies: nil,
		},
	}
}

// validateSingleTaskPerAgent enforces the one-task-per-agent invariant that
// agent-granularity dependencies rely on.
func validateSingleTaskPerAgent(tasks []models.AgentTask) error {
	seen := make(map[models.Agent]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.Agent] {
			return fmt.Errorf("plan assigns multiple tasks to agent %q; dependencies are keyed by agent", t.Agent)
		}
		seen[t.Agent] = true
	}
	return nil
}
