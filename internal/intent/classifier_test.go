package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

func TestClassifyCategories(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		input string
		want  models.IntentCategory
	}{
		{"quantum experiment", "Run a quantum experiment on the QPU", models.IntentQuantumExperiment},
		{"quantum circuit", "Create a quantum circuit with 4 qubits", models.IntentQuantumCircuit},
		{"code generation", "Write code for a REST client", models.IntentCodeGeneration},
		{"code review", "Please review code in the payments module", models.IntentCodeReview},
		{"debugging", "Debug the database connection error", models.IntentDebugging},
		{"architecture", "Design a system for order processing", models.IntentArchitectureDesign},
		{"data analysis", "Analyze data from last week's benchmark", models.IntentDataAnalysis},
		{"testing", "Generate tests for the parser", models.IntentTesting},
		{"documentation", "Write documentation for the public API", models.IntentDocumentation},
		{"deployment", "Deploy to the staging cluster", models.IntentDeployment},
		{"research", "Research about vector databases", models.IntentResearch},
		{"no match defaults", "hello there", models.IntentCodeGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.want, got.Category)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("")

	assert.Equal(t, models.IntentCodeGeneration, got.Category)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, models.ComplexitySimple, got.Complexity)
	assert.Empty(t, got.Keywords)
}

func TestClassifyPriorityWins(t *testing.T) {
	c := NewClassifier()

	// Matches both code_generation (8) and quantum_experiment (10):
	// the higher-priority quantum category must win.
	got := c.Classify("Write code to run a quantum experiment")
	assert.Equal(t, models.IntentQuantumExperiment, got.Category)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
}

func TestClassifyConfidenceFromPriority(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("research about compilers")
	require.Equal(t, models.IntentResearch, got.Category)
	assert.InDelta(t, 0.89, got.Confidence, 1e-9)
}

func TestClassifyComplexity(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Design a scalable microservices architecture for a chat app")
	assert.Equal(t, models.IntentArchitectureDesign, got.Category)
	assert.Equal(t, models.ComplexityComplex, got.Complexity)

	moderate := strings.Repeat("word ", 25)
	assert.Equal(t, models.ComplexityModerate, c.Classify(moderate).Complexity)

	long := strings.Repeat("word ", 60)
	assert.Equal(t, models.ComplexityComplex, c.Classify(long).Complexity)

	assert.Equal(t, models.ComplexitySimple, c.Classify("fix this").Complexity)
}

func TestExtractEntities(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Build a FastAPI endpoint in Python and run it on ibm_torino")
	assert.Equal(t, "python", got.Entities.Language)
	assert.Equal(t, "fastapi", got.Entities.Framework)
	assert.Equal(t, "ibm_torino", got.Entities.Backend)

	// First vocabulary match wins per field.
	got = c.Classify("port this typescript service to javascript")
	assert.Equal(t, "typescript", got.Entities.Language)
}

func TestExtractKeywords(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Implement the caching layer with redis for faster lookups")
	// Stopwords and words of length <= 3 are dropped; order preserved.
	assert.Equal(t, []string{"implement", "caching", "layer", "redis", "faster", "lookups"}, got.Keywords)

	long := strings.Repeat("keyword ", 15)
	assert.Len(t, c.Classify(long).Keywords, 10)
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier()
	input := "Debug the flaky integration test in the billing service"

	first := c.Classify(input)
	second := c.Classify(input)
	assert.Equal(t, first, second)
}
