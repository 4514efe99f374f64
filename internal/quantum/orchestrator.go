// Package quantum is the quantum-experiment sub-orchestrator: it turns
// natural-language requests into experiment descriptors, executes them
// against a mock backend, and plausibility-checks the results.
//
// Execution is mocked end to end. Counts are shaped by circuit family and
// the derived metrics are decorative; the mock exists so the surrounding
// pipeline (parse, execute, validate, persist) is exercised for real.
package quantum

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

var (
	qubitRe = regexp.MustCompile(`(\d+)\s*qubit`)
	shotsRe = regexp.MustCompile(`(\d+)\s*shot`)
)

// backendVocab is checked in order; first substring hit wins.
var backendVocab = []string{"ibm_osaka", "ibm_kyoto", "ibm_torino", "ibm_brisbane"}

// maxMockQubits bounds the register size the mock backend will simulate.
// The uniform fallback materializes every basis state, so the count must
// stay small enough to enumerate.
const maxMockQubits = 10

// Match is the outcome of parsing a natural-language experiment request.
type Match struct {
	Experiment  models.QuantumExperiment `json:"experiment"`
	Confidence  float64                  `json:"confidence"`
	Suggestions []string                 `json:"suggestions"`
}

// Orchestrator matches, runs, and validates quantum experiments.
type Orchestrator struct {
	randFloat func() float64
}

// NewOrchestrator creates a quantum sub-orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{randFloat: rand.Float64}
}

// ParseRequest maps free text onto an experiment descriptor. Catalog
// templates are tried first (first-match-wins, threshold of two keyword
// hits); when none reaches the threshold a custom experiment is
// synthesized from whatever parameters the text mentions. The custom
// path always produces a descriptor, so every request gets an experiment.
func (o *Orchestrator) ParseRequest(input string) Match {
	normalized := strings.ToLower(input)

	for _, tpl := range templates {
		keywords := append([]string{
			strings.ToLower(tpl.Name),
			string(tpl.CircuitType),
		}, strings.Split(strings.ToLower(tpl.Description), " ")...)

		matchCount := 0
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				matchCount++
			}
		}

		if matchCount >= 2 {
			return Match{
				Experiment: tpl,
				Confidence: math.Min(0.95, 0.5+float64(matchCount)*0.1),
				Suggestions: []string{
					fmt.Sprintf("Matched experiment: %s", tpl.Name),
					fmt.Sprintf("Circuit type: %s", tpl.CircuitType),
					fmt.Sprintf("Qubits: %d", tpl.NumQubits),
					fmt.Sprintf("Backend: %s", tpl.Backend),
				},
			}
		}
	}

	return Match{
		Experiment: constructCustomExperiment(input),
		Confidence: 0.6,
		Suggestions: []string{
			"Custom experiment constructed",
			"Review parameters before execution",
			"Consider using a template for better accuracy",
		},
	}
}

// constructCustomExperiment builds an experiment from whatever the text
// mentions, with permissive defaults. The metric envelope is wide open
// apart from the decoherence thresholds.
func constructCustomExperiment(input string) models.QuantumExperiment {
	normalized := strings.ToLower(input)

	numQubits := 2
	if m := qubitRe.FindStringSubmatch(normalized); m != nil {
		numQubits, _ = strconv.Atoi(m[1])
	}
	numQubits = clampQubits(numQubits)

	shots := 1024
	if m := shotsRe.FindStringSubmatch(normalized); m != nil {
		shots, _ = strconv.Atoi(m[1])
	}

	backend := "ibm_osaka"
	for _, b := range backendVocab {
		if strings.Contains(normalized, b) {
			backend = b
			break
		}
	}

	circuitType := models.CircuitCustom
	switch {
	case strings.Contains(normalized, "ghz"):
		circuitType = models.CircuitGHZ
	case strings.Contains(normalized, "bell"):
		circuitType = models.CircuitBell
	case strings.Contains(normalized, "qft"), strings.Contains(normalized, "fourier"):
		circuitType = models.CircuitQFT
	case strings.Contains(normalized, "vqe"):
		circuitType = models.CircuitVQE
	case strings.Contains(normalized, "qaoa"):
		circuitType = models.CircuitQAOA
	case strings.Contains(normalized, "grover"):
		circuitType = models.CircuitGrover
	case strings.Contains(normalized, "loschmidt"):
		circuitType = models.CircuitLoschmidt
	}

	return models.QuantumExperiment{
		ID:          "custom-" + uuid.New().String(),
		Name:        "Custom Quantum Experiment",
		Description: input,
		CircuitType: circuitType,
		NumQubits:   numQubits,
		Shots:       shots,
		Backend:     backend,
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.0, 1.0},
			PhiRange:       [2]float64{0.0, 1.0},
			GammaThreshold: 0.1,
			W2Threshold:    0.2,
		},
	}
}

// Execute runs the experiment against the mock backend and returns a
// populated result. It never fails; a real backend integration would
// replace the count generation and surface submission errors here.
func (o *Orchestrator) Execute(exp models.QuantumExperiment, userID string) models.ExperimentResult {
	start := time.Now()

	counts := generateMockCounts(exp)
	metrics := o.computeMetrics(counts)

	result := models.ExperimentResult{
		ExperimentID:  exp.ID,
		Backend:       exp.Backend,
		JobID:         "job-" + uuid.New().String(),
		Counts:        counts,
		Metrics:       metrics,
		ExecutionTime: time.Since(start).Milliseconds(),
		Timestamp:     time.Now().UTC(),
		Success:       true,
	}

	log.Debug().
		Str("experiment", exp.ID).
		Str("backend", exp.Backend).
		Str("job_id", result.JobID).
		Str("user_id", userID).
		Int("shots", exp.Shots).
		Msg("executed quantum experiment")

	return result
}

// generateMockCounts shapes measurement counts by circuit family. Families
// without a dedicated shape get a uniform distribution over all basis
// states of the register.
func generateMockCounts(exp models.QuantumExperiment) map[string]int {
	counts := make(map[string]int)
	shots := float64(exp.Shots)

	switch exp.CircuitType {
	case models.CircuitGHZ:
		counts["000"] = int(shots * 0.48)
		counts["111"] = int(shots * 0.48)
		counts["001"] = int(shots * 0.01)
		counts["010"] = int(shots * 0.01)
		counts["100"] = int(shots * 0.01)
		counts["110"] = int(shots * 0.01)

	case models.CircuitBell:
		counts["00"] = int(shots * 0.49)
		counts["11"] = int(shots * 0.49)
		counts["01"] = int(shots * 0.01)
		counts["10"] = int(shots * 0.01)

	case models.CircuitLoschmidt:
		counts["00"] = int(shots * 0.92)
		counts["01"] = int(shots * 0.03)
		counts["10"] = int(shots * 0.03)
		counts["11"] = int(shots * 0.02)

	default:
		numQubits := clampQubits(exp.NumQubits)
		numStates := 1 << numQubits
		per := exp.Shots / numStates
		for i := 0; i < numStates; i++ {
			state := fmt.Sprintf("%0*b", numQubits, i)
			counts[state] = per
		}
	}

	return counts
}

func clampQubits(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxMockQubits {
		return maxMockQubits
	}
	return n
}

// computeMetrics derives the four result metrics from counts. Lambda is
// the gap between the two most probable states, Phi its complement;
// Gamma and W2 are sampled noise standing in for backend calibration data.
func (o *Orchestrator) computeMetrics(counts map[string]int) models.ConsciousnessMetrics {
	total := 0
	for _, c := range counts {
		total += c
	}

	// A run with no recorded counts degrades to a zero gap.
	var lambda float64
	if total > 0 {
		probs := make([]float64, 0, len(counts))
		for _, c := range counts {
			probs = append(probs, float64(c)/float64(total))
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(probs)))

		var second float64
		if len(probs) > 1 {
			second = probs[1]
		}
		lambda = math.Abs(probs[0] - second)
	}
	phi := 1 - lambda*lambda
	gamma := 0.01 + o.randFloat()*0.05
	w2 := 0.02 + o.randFloat()*0.08

	return models.ConsciousnessMetrics{
		Lambda: round6(lambda),
		Phi:    round6(phi),
		Gamma:  round6(gamma),
		W2:     round6(w2),
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ValidateResult checks a result's metrics against the experiment's
// expected envelope. Four checks, each worth a quarter of the score; valid
// means at least three passed.
func (o *Orchestrator) ValidateResult(result models.ExperimentResult, exp models.QuantumExperiment) models.ValidationReport {
	var issues []string
	passed := 0
	total := 0

	m := result.Metrics
	want := exp.ExpectedMetrics

	total++
	if m.Lambda >= want.LambdaRange[0] && m.Lambda <= want.LambdaRange[1] {
		passed++
	} else {
		issues = append(issues, fmt.Sprintf("Lambda (%g) outside expected range [%g, %g]",
			m.Lambda, want.LambdaRange[0], want.LambdaRange[1]))
	}

	total++
	if m.Phi >= want.PhiRange[0] && m.Phi <= want.PhiRange[1] {
		passed++
	} else {
		issues = append(issues, fmt.Sprintf("Phi (%g) outside expected range [%g, %g]",
			m.Phi, want.PhiRange[0], want.PhiRange[1]))
	}

	total++
	if m.Gamma <= want.GammaThreshold {
		passed++
	} else {
		issues = append(issues, fmt.Sprintf("Gamma (%g) above threshold %g", m.Gamma, want.GammaThreshold))
	}

	total++
	if m.W2 <= want.W2Threshold {
		passed++
	} else {
		issues = append(issues, fmt.Sprintf("W2 (%g) above threshold %g", m.W2, want.W2Threshold))
	}

	score := float64(passed) / float64(total)

	return models.ValidationReport{
		Valid:  score >= 0.75,
		Issues: issues,
		Score:  score,
	}
}

// SuggestExperiments returns catalog templates whose name, description, or
// circuit type contains the query.
func (o *Orchestrator) SuggestExperiments(query string) []models.QuantumExperiment {
	normalized := strings.ToLower(query)
	var out []models.QuantumExperiment
	for _, tpl := range templates {
		if strings.Contains(strings.ToLower(tpl.Name), normalized) ||
			strings.Contains(strings.ToLower(tpl.Description), normalized) ||
			strings.Contains(string(tpl.CircuitType), normalized) {
			out = append(out, tpl)
		}
	}
	return out
}
