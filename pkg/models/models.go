// Package models defines the shared data types for the Aura orchestrator:
// classified intents, agent task graphs, quantum experiment descriptors,
// development workflows, and persisted orchestration runs.
package models

import "time"

// ── Intent ───────────────────────────────────────────────────

// IntentCategory is the closed set of meanings the classifier can assign
// to a user utterance.
type IntentCategory string

const (
	IntentCodeGeneration     IntentCategory = "code_generation"
	IntentCodeReview         IntentCategory = "code_review"
	IntentDebugging          IntentCategory = "debugging"
	IntentArchitectureDesign IntentCategory = "architecture_design"
	IntentQuantumExperiment  IntentCategory = "quantum_experiment"
	IntentQuantumCircuit     IntentCategory = "quantum_circuit"
	IntentDataAnalysis       IntentCategory = "data_analysis"
	IntentSystemDesign       IntentCategory = "system_design"
	IntentDocumentation      IntentCategory = "documentation"
	IntentTesting            IntentCategory = "testing"
	IntentDeployment         IntentCategory = "deployment"
	IntentResearch           IntentCategory = "research"
)

// Complexity buckets a request by how much coordination it needs.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Entities holds the structured fields extracted from free text.
// Each field is either empty or a value from a small fixed vocabulary.
type Entities struct {
	Language  string `json:"language,omitempty"`
	Framework string `json:"framework,omitempty"`
	Backend   string `json:"backend,omitempty"`
	TaskType  string `json:"task_type,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// Intent is the classified meaning of one user utterance.
// Created fresh per request; immutable; never persisted on its own.
type Intent struct {
	Category   IntentCategory `json:"type"`
	Confidence float64        `json:"confidence"`
	Entities   Entities       `json:"entities"`
	Keywords   []string       `json:"keywords"`
	Complexity Complexity     `json:"complexity"`
}

// ── Agent Tasks ──────────────────────────────────────────────

// Agent identifies a logical worker that tasks are assigned to.
// Execution of the agent's task is delegated across the agents.Executor
// boundary.
type Agent string

const (
	AgentCoding     Agent = "coding"
	AgentPlanner    Agent = "planner"
	AgentQuantum    Agent = "quantum"
	AgentWorldModel Agent = "worldmodel"
	AgentGovernor   Agent = "governor"
	AgentSafety     Agent = "safety"
	AgentMemory     Agent = "memory"
	AgentIO         Agent = "io"
)

// TaskSpec describes the work assigned to a single agent.
type TaskSpec struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// AgentTask is one unit of work in an orchestration plan.
// Dependencies are expressed at agent granularity: every plan template
// creates at most one task per agent, so "depends on agent X" names a
// unique task. Build validates that invariant.
type AgentTask struct {
	Agent        Agent    `json:"agent"`
	Task         TaskSpec `json:"task"`
	Priority     int      `json:"priority"`
	Dependencies []Agent  `json:"dependencies"`
}

// OrchestrationPlan is the complete output of one planning request.
type OrchestrationPlan struct {
	Intent            Intent      `json:"intent"`
	Tasks             []AgentTask `json:"tasks"`
	ExecutionOrder    []Agent     `json:"execution_order"`
	EstimatedDuration int         `json:"estimated_duration"`
	RequiresApproval  bool        `json:"requires_approval"`
}

// ── Quantum Experiments ──────────────────────────────────────

// CircuitType enumerates the circuit families the mock executor can shape
// measurement counts for.
type CircuitType string

const (
	CircuitGHZ       CircuitType = "ghz"
	CircuitBell      CircuitType = "bell"
	CircuitQFT       CircuitType = "qft"
	CircuitVQE       CircuitType = "vqe"
	CircuitQAOA      CircuitType = "qaoa"
	CircuitGrover    CircuitType = "grover"
	CircuitLoschmidt CircuitType = "loschmidt"
	CircuitCustom    CircuitType = "custom"
)

// ExpectedMetrics is the plausibility envelope for an experiment's four
// result metrics. It gates validation only; it is not a correctness proof.
type ExpectedMetrics struct {
	LambdaRange    [2]float64 `json:"lambda_range"`
	PhiRange       [2]float64 `json:"phi_range"`
	GammaThreshold float64    `json:"gamma_threshold"`
	W2Threshold    float64    `json:"w2_threshold"`
}

// QuantumExperiment is a named, pre-configured experiment descriptor.
type QuantumExperiment struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	CircuitType     CircuitType            `json:"circuit_type"`
	NumQubits       int                    `json:"num_qubits"`
	Shots           int                    `json:"shots"`
	Backend         string                 `json:"backend"`
	Parameters      map[string]interface{} `json:"parameters,omitempty"`
	ExpectedMetrics ExpectedMetrics        `json:"expected_metrics"`
}

// ConsciousnessMetrics are the four decorative numeric outputs derived from
// measurement counts. The values carry no physical meaning; the fields exist
// for interface compatibility with result consumers.
type ConsciousnessMetrics struct {
	Lambda float64 `json:"lambda"`
	Phi    float64 `json:"phi"`
	Gamma  float64 `json:"gamma"`
	W2     float64 `json:"w2"`
}

// ExperimentResult is the outcome of one (mock) experiment execution.
type ExperimentResult struct {
	ExperimentID  string               `json:"experiment_id"`
	Backend       string               `json:"backend"`
	JobID         string               `json:"job_id"`
	Counts        map[string]int       `json:"counts"`
	Metrics       ConsciousnessMetrics `json:"metrics"`
	ExecutionTime int64                `json:"execution_time"`
	Timestamp     time.Time            `json:"timestamp"`
	Success       bool                 `json:"success"`
	Error         string               `json:"error,omitempty"`
}

// ValidationReport compares an ExperimentResult against the experiment's
// expected metric envelope.
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
	Score  float64  `json:"score"`
}

// ── Development Workflows ────────────────────────────────────

// DevWorkflowStep is one step in a catalog workflow. Unlike AgentTask,
// dependencies are keyed by step ID, so a workflow may assign several
// steps to the same agent.
type DevWorkflowStep struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Agent        Agent    `json:"agent"`
	Dependencies []string `json:"dependencies"`
	AutoExecute  bool     `json:"auto_execute"`
}

// DevWorkflow is a named, pre-configured sequence of development steps.
type DevWorkflow struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Steps         []DevWorkflowStep `json:"steps"`
	EstimatedTime int               `json:"estimated_time"`
}

// ArtifactType classifies a produced code artifact.
type ArtifactType string

const (
	ArtifactCode          ArtifactType = "code"
	ArtifactTest          ArtifactType = "test"
	ArtifactConfig        ArtifactType = "config"
	ArtifactDocumentation ArtifactType = "documentation"
	ArtifactDiagram       ArtifactType = "diagram"
)

// CodeArtifact is a file-shaped output produced by a workflow step.
type CodeArtifact struct {
	Type     ArtifactType           `json:"type"`
	Language string                 `json:"language"`
	Content  string                 `json:"content"`
	FilePath string                 `json:"file_path,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// WorkflowRunResult is the outcome of one workflow execution.
// Success means no step errored AND no step was skipped.
type WorkflowRunResult struct {
	Success   bool           `json:"success"`
	Artifacts []CodeArtifact `json:"artifacts"`
	Errors    []string       `json:"errors"`
}

// ── Orchestration Runs ───────────────────────────────────────

// RunMode selects which sub-orchestrator handled a request.
type RunMode string

const (
	ModeAuto     RunMode = "auto"
	ModeDev      RunMode = "dev"
	ModeQuantum  RunMode = "quantum"
	ModeResearch RunMode = "research"
)

// RunStatus tracks the lifecycle of a persisted orchestration run.
type RunStatus string

const (
	RunPlanned  RunStatus = "planned"
	RunExecuted RunStatus = "executed"
	RunFailed   RunStatus = "failed"
)

// OrchestrationRun is the persisted record of one orchestrate call.
type OrchestrationRun struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Mode       RunMode            `json:"mode"`
	Input      string             `json:"input"`
	Intent     *Intent            `json:"intent,omitempty"`
	Plan       *OrchestrationPlan `json:"plan,omitempty"`
	Experiment *QuantumExperiment `json:"experiment,omitempty"`
	Workflow   string             `json:"workflow,omitempty"`
	Result     *ExperimentResult  `json:"result,omitempty"`
	Status     RunStatus          `json:"status"`
	Error      string             `json:"error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ── Usage Tracking ───────────────────────────────────────────

// Tier is the subscription tier read from the external billing system.
// Billing itself is out of scope; the orchestrator only enforces counters.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// UsageKind names a metered operation.
type UsageKind string

const (
	UsageQuantumExecutions UsageKind = "quantum_executions"
	UsageWorkflowRuns      UsageKind = "workflow_runs"
)

// UsageRecord is one user's counters for one calendar month ("2026-08").
type UsageRecord struct {
	UserID            string `json:"user_id"`
	Month             string `json:"month"`
	QuantumExecutions int    `json:"quantum_executions"`
	WorkflowRuns      int    `json:"workflow_runs"`
}

// ── Agent Registry ───────────────────────────────────────────

// AgentProfile describes one of the eight logical agents for the
// discovery endpoint.
type AgentProfile struct {
	ID           Agent    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	CostSeconds  int      `json:"cost_seconds"`
}

// AgentResult is what the execution boundary returns for one task.
type AgentResult struct {
	Agent      Agent                  `json:"agent"`
	TaskType   string                 `json:"task_type"`
	Success    bool                   `json:"success"`
	Output     map[string]interface{} `json:"output,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
}
