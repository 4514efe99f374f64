// Package agents defines the execution boundary between orchestration and
// the agents that do the work, plus the registry describing them.
//
// The orchestrator never runs agent logic itself; it hands a TaskSpec
// across the Executor interface and records the result. The bundled
// MockExecutor stands in for the real agent runtime so the planning and
// workflow pipelines can be exercised end to end.
package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// Executor runs a single agent task. Implementations must honor context
// cancellation and report failures through the returned error, not by
// panicking.
type Executor interface {
	Execute(ctx context.Context, agent models.Agent, task models.TaskSpec) (models.AgentResult, error)
}

// MockExecutor simulates agent execution. Every task succeeds after a
// negligible delay and echoes its inputs in the output map.
type MockExecutor struct{}

// NewMockExecutor creates a mock execution backend.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Execute simulates running the task. It fails only when the context is
// already cancelled.
func (m *MockExecutor) Execute(ctx context.Context, agent models.Agent, task models.TaskSpec) (models.AgentResult, error) {
	start := time.Now()

	select {
	case <-ctx.Done():
		return models.AgentResult{
			Agent:    agent,
			TaskType: task.Type,
			Error:    ctx.Err().Error(),
		}, fmt.Errorf("execute %s task %q: %w", agent, task.Type, ctx.Err())
	default:
	}

	log.Debug().
		Str("agent", string(agent)).
		Str("task_type", task.Type).
		Msg("mock agent execution")

	return models.AgentResult{
		Agent:    agent,
		TaskType: task.Type,
		Success:  true,
		Output: map[string]interface{}{
			"status":      "completed",
			"description": task.Description,
		},
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
