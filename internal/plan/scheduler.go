package plan

import (
	"errors"
	"fmt"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// ErrCyclicDependency is returned when a task graph contains a dependency
// cycle and no topological order exists.
var ErrCyclicDependency = errors.New("cyclic dependency in task graph")

// ErrUnknownDependency is returned when a task depends on an agent that has
// no task in the plan.
var ErrUnknownDependency = errors.New("unknown dependency in task graph")

// Order computes a topological execution order for the tasks using Kahn's
// algorithm. The order is deterministic: among tasks whose dependencies are
// all satisfied, the one declared first in the plan runs first. Cycles and
// references to agents with no task in the plan are reported as errors
// rather than silently truncating the schedule.
func Order(tasks []models.AgentTask) ([]models.Agent, error) {
	indegree := make(map[models.Agent]int, len(tasks))
	for _, t := range tasks {
		indegree[t.Agent] = 0
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := indegree[dep]; !ok {
				return nil, fmt.Errorf("%w: task %q depends on %q", ErrUnknownDependency, t.Agent, dep)
			}
		}
		indegree[t.Agent] = len(t.Dependencies)
	}

	order := make([]models.Agent, 0, len(tasks))
	scheduled := make(map[models.Agent]bool, len(tasks))

	for len(order) < len(tasks) {
		progressed := false
		for _, t := range tasks {
			if scheduled[t.Agent] || indegree[t.Agent] > 0 {
				continue
			}
			scheduled[t.Agent] = true
			order = append(order, t.Agent)
			progressed = true
			for _, u := range tasks {
				for _, dep := range u.Dependencies {
					if dep == t.Agent {
						indegree[u.Agent]--
					}
				}
			}
		}
		if !progressed {
			remaining := make([]models.Agent, 0, len(tasks)-len(order))
			for _, t := range tasks {
				if !scheduled[t.Agent] {
					remaining = append(remaining, t.Agent)
				}
			}
			return nil, fmt.Errorf("%w: unschedulable tasks %v", ErrCyclicDependency, remaining)
		}
	}

	return order, nil
}

// agentDurations estimates seconds of wall time per agent task. Unlisted
// agents fall back to defaultDuration.
var agentDurations = map[models.Agent]int{
	models.AgentPlanner:    2,
	models.AgentCoding:     10,
	models.AgentQuantum:    60,
	models.AgentWorldModel: 3,
	models.AgentGovernor:   1,
	models.AgentSafety:     2,
	models.AgentMemory:     5,
	models.AgentIO:         1,
}

const defaultDuration = 5

// EstimateDuration sums per-task duration estimates in seconds. The
// estimate is additive even where the schedule permits parallelism, so it
// is an upper bound for a fully sequential executor.
func EstimateDuration(tasks []models.AgentTask) int {
	total := 0
	for _, t := range tasks {
		d, ok := agentDurations[t.Agent]
		if !ok {
			d = defaultDuration
		}
		total += d
	}
	return total
}
