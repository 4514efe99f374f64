package agents

import "github.com/dnalang/aura-orchestrator/pkg/models"

// profiles describes the eight logical agents exposed by the discovery
// endpoint. CostSeconds matches the scheduler's duration table.
var profiles = []models.AgentProfile{
	{
		ID:          models.AgentPlanner,
		Name:        "Task Planner",
		Description: "Decomposes requests into ordered tasks and execution strategy",
		Capabilities: []string{
			"Task decomposition",
			"Dependency analysis",
			"Execution strategy",
		},
		CostSeconds: 2,
	},
	{
		ID:          models.AgentCoding,
		Name:        "Code Engineer",
		Description: "Implementation, code generation, and technical problem-solving",
		Capabilities: []string{
			"Code generation",
			"Refactoring",
			"Optimization",
			"Multi-language support",
		},
		CostSeconds: 10,
	},
	{
		ID:          models.AgentQuantum,
		Name:        "Quantum Executor",
		Description: "Quantum circuit execution and metric extraction on IBM backends",
		Capabilities: []string{
			"Quantum circuit execution",
			"Coherence metrics calculation",
			"Backend selection",
		},
		CostSeconds: 60,
	},
	{
		ID:          models.AgentWorldModel,
		Name:        "World Model",
		Description: "Context analysis and integration of results into shared state",
		Capabilities: []string{
			"Context analysis",
			"Result integration",
			"Synthesis",
		},
		CostSeconds: 3,
	},
	{
		ID:          models.AgentGovernor,
		Name:        "Governor",
		Description: "Policy checks and resource budgeting across agent runs",
		Capabilities: []string{
			"Policy enforcement",
			"Budget tracking",
		},
		CostSeconds: 1,
	},
	{
		ID:          models.AgentSafety,
		Name:        "Safety Reviewer",
		Description: "Code quality analysis, security audit, and behavior validation",
		Capabilities: []string{
			"Security audit",
			"Code quality analysis",
			"Behavior validation",
		},
		CostSeconds: 2,
	},
	{
		ID:          models.AgentMemory,
		Name:        "Memory",
		Description: "Information retrieval over prior runs and stored knowledge",
		Capabilities: []string{
			"Information retrieval",
			"Knowledge lookup",
		},
		CostSeconds: 5,
	},
	{
		ID:          models.AgentIO,
		Name:        "IO Formatter",
		Description: "Formats and delivers final outputs to the caller",
		Capabilities: []string{
			"Output formatting",
			"Artifact delivery",
		},
		CostSeconds: 1,
	},
}

// Profiles returns descriptors for all known agents.
func Profiles() []models.AgentProfile {
	out := make([]models.AgentProfile, len(profiles))
	copy(out, profiles)
	return out
}

// Profile looks up one agent's descriptor.
func Profile(id models.Agent) (models.AgentProfile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return models.AgentProfile{}, false
}
