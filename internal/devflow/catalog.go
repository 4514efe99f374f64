package devflow

import "github.com/dnalang/aura-orchestrator/pkg/models"

// workflows is the fixed workflow catalog. Matching is priority-ordered in
// matchWorkflow, not by position here, but ExecuteWorkflow runs each
// workflow's steps strictly in declaration order.
var workflows = []models.DevWorkflow{
	{
		ID:            "full-stack-feature",
		Name:          "Full-Stack Feature Development",
		Description:   "Complete implementation from API to UI",
		EstimatedTime: 300,
		Steps: []models.DevWorkflowStep{
			{ID: "plan", Name: "Feature Planning", Description: "Decompose feature into tasks",
				Agent: models.AgentPlanner, Dependencies: nil, AutoExecute: true},
			{ID: "api", Name: "API Implementation", Description: "Create backend API endpoints",
				Agent: models.AgentCoding, Dependencies: []string{"plan"}, AutoExecute: true},
			{ID: "frontend", Name: "Frontend Implementation", Description: "Create UI components",
				Agent: models.AgentCoding, Dependencies: []string{"api"}, AutoExecute: true},
			{ID: "tests", Name: "Test Generation", Description: "Generate unit and integration tests",
				Agent: models.AgentCoding, Dependencies: []string{"api", "frontend"}, AutoExecute: true},
			{ID: "review", Name: "Code Review", Description: "Automated code quality and security review",
				Agent: models.AgentSafety, Dependencies: []string{"tests"}, AutoExecute: true},
		},
	},
	{
		ID:            "api-endpoint",
		Name:          "API Endpoint Creation",
		Description:   "Create REST/GraphQL API endpoint",
		EstimatedTime: 120,
		Steps: []models.DevWorkflowStep{
			{ID: "plan", Name: "Endpoint Planning", Description: "Design API contract",
				Agent: models.AgentPlanner, Dependencies: nil, AutoExecute: true},
			{ID: "implementation", Name: "Endpoint Implementation", Description: "Implement API logic",
				Agent: models.AgentCoding, Dependencies: []string{"plan"}, AutoExecute: true},
			{ID: "tests", Name: "API Tests", Description: "Generate API tests",
				Agent: models.AgentCoding, Dependencies: []string{"implementation"}, AutoExecute: true},
			{ID: "docs", Name: "API Documentation", Description: "Generate OpenAPI spec",
				Agent: models.AgentCoding, Dependencies: []string{"implementation"}, AutoExecute: true},
		},
	},
	{
		ID:            "bug-fix",
		Name:          "Bug Diagnosis and Fix",
		Description:   "Systematic debugging workflow",
		EstimatedTime: 180,
		Steps: []models.DevWorkflowStep{
			{ID: "analyze", Name: "Error Analysis", Description: "Analyze error context and stack trace",
				Agent: models.AgentWorldModel, Dependencies: nil, AutoExecute: true},
			{ID: "diagnose", Name: "Root Cause Diagnosis", Description: "Identify root cause",
				Agent: models.AgentCoding, Dependencies: []string{"analyze"}, AutoExecute: true},
			// Applying a fix touches the user's code, so it needs approval.
			{ID: "fix", Name: "Implement Fix", Description: "Generate fix code",
				Agent: models.AgentCoding, Dependencies: []string{"diagnose"}, AutoExecute: false},
			{ID: "test", Name: "Regression Tests", Description: "Generate tests to prevent recurrence",
				Agent: models.AgentCoding, Dependencies: []string{"fix"}, AutoExecute: true},
		},
	},
	{
		ID:            "refactor",
		Name:          "Code Refactoring",
		Description:   "Improve code structure and quality",
		EstimatedTime: 240,
		Steps: []models.DevWorkflowStep{
			{ID: "analyze", Name: "Code Analysis", Description: "Identify refactoring opportunities",
				Agent: models.AgentCoding, Dependencies: nil, AutoExecute: true},
			{ID: "plan", Name: "Refactoring Plan", Description: "Plan refactoring strategy",
				Agent: models.AgentPlanner, Dependencies: []string{"analyze"}, AutoExecute: true},
			{ID: "refactor", Name: "Apply Refactoring", Description: "Execute refactoring",
				Agent: models.AgentCoding, Dependencies: []string{"plan"}, AutoExecute: false},
			{ID: "validate", Name: "Validation", Description: "Ensure behavior unchanged",
				Agent: models.AgentSafety, Dependencies: []string{"refactor"}, AutoExecute: true},
		},
	},
	{
		ID:            "deployment-pipeline",
		Name:          "CI/CD Pipeline Setup",
		Description:   "Create deployment automation",
		EstimatedTime: 300,
		Steps: []models.DevWorkflowStep{
			{ID: "plan", Name: "Pipeline Planning", Description: "Design deployment strategy",
				Agent: models.AgentPlanner, Dependencies: nil, AutoExecute: true},
			{ID: "dockerfile", Name: "Docker Configuration", Description: "Create Dockerfile and docker-compose",
				Agent: models.AgentCoding, Dependencies: []string{"plan"}, AutoExecute: true},
			{ID: "k8s", Name: "Kubernetes Manifests", Description: "Generate K8s deployment configs",
				Agent: models.AgentCoding, Dependencies: []string{"dockerfile"}, AutoExecute: true},
			{ID: "ci", Name: "CI/CD Configuration", Description: "Create GitHub Actions / GitLab CI",
				Agent: models.AgentCoding, Dependencies: []string{"k8s"}, AutoExecute: true},
		},
	},
}

// ListWorkflows returns the workflow catalog.
func ListWorkflows() []models.DevWorkflow {
	out := make([]models.DevWorkflow, len(workflows))
	copy(out, workflows)
	return out
}

// GetWorkflow looks up a catalog workflow by ID.
func GetWorkflow(id string) (models.DevWorkflow, bool) {
	for _, w := range workflows {
		if w.ID == id {
			return w, true
		}
	}
	return models.DevWorkflow{}, false
}
