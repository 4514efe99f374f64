package quantum

import "github.com/dnalang/aura-orchestrator/pkg/models"

// lambdaPhi is the reference coherence constant, 2.176435×10⁻⁸ s⁻¹.
// Only the loschmidt-echo envelope is scaled by it.
const lambdaPhi = 2.176435e-8

// templates is the fixed experiment catalog in match order. Request
// matching is first-match-wins over this slice, so order is load-bearing.
var templates = []models.QuantumExperiment{
	{
		ID:          "ghz-coherence",
		Name:        "GHZ State Coherence Measurement",
		Description: "Create and measure 3-qubit GHZ state to test entanglement",
		CircuitType: models.CircuitGHZ,
		NumQubits:   3,
		Shots:       1024,
		Backend:     "ibm_osaka",
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.0, 0.1},
			PhiRange:       [2]float64{0.8, 1.0},
			GammaThreshold: 0.05,
			W2Threshold:    0.1,
		},
	},
	{
		ID:          "bell-pair-fidelity",
		Name:        "Bell Pair Fidelity Test",
		Description: "Measure fidelity of maximally entangled Bell pair",
		CircuitType: models.CircuitBell,
		NumQubits:   2,
		Shots:       2048,
		Backend:     "ibm_osaka",
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.0, 0.05},
			PhiRange:       [2]float64{0.9, 1.0},
			GammaThreshold: 0.03,
			W2Threshold:    0.05,
		},
	},
	{
		ID:          "qft-transform",
		Name:        "Quantum Fourier Transform",
		Description: "Execute QFT on 4 qubits",
		CircuitType: models.CircuitQFT,
		NumQubits:   4,
		Shots:       1024,
		Backend:     "ibm_kyoto",
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.1, 0.3},
			PhiRange:       [2]float64{0.7, 0.9},
			GammaThreshold: 0.08,
			W2Threshold:    0.15,
		},
	},
	{
		ID:          "loschmidt-echo",
		Name:        "Loschmidt Echo Coherence Probe",
		Description: "Forward-reverse evolution to measure quantum reversibility",
		CircuitType: models.CircuitLoschmidt,
		NumQubits:   2,
		Shots:       4096,
		Backend:     "ibm_torino",
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{lambdaPhi * 0.8, lambdaPhi * 1.2},
			PhiRange:       [2]float64{0.95, 1.0},
			GammaThreshold: 0.02,
			W2Threshold:    0.03,
		},
	},
	{
		ID:          "vqe-hydrogen",
		Name:        "VQE Hydrogen Molecule",
		Description: "Variational Quantum Eigensolver for H2 ground state",
		CircuitType: models.CircuitVQE,
		NumQubits:   4,
		Shots:       2048,
		Backend:     "ibm_kyoto",
		Parameters: map[string]interface{}{
			"molecule":    "H2",
			"bond_length": 0.735,
			"iterations":  50,
		},
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.05, 0.15},
			PhiRange:       [2]float64{0.8, 0.95},
			GammaThreshold: 0.1,
			W2Threshold:    0.12,
		},
	},
	{
		ID:          "grover-search",
		Name:        "Grover's Search Algorithm",
		Description: "Quantum search for marked state",
		CircuitType: models.CircuitGrover,
		NumQubits:   3,
		Shots:       1024,
		Backend:     "ibm_osaka",
		Parameters: map[string]interface{}{
			"marked_state": "101",
			"iterations":   2,
		},
		ExpectedMetrics: models.ExpectedMetrics{
			LambdaRange:    [2]float64{0.3, 0.5},
			PhiRange:       [2]float64{0.6, 0.8},
			GammaThreshold: 0.12,
			W2Threshold:    0.18,
		},
	},
}

// ListExperiments returns the experiment catalog in match order.
func ListExperiments() []models.QuantumExperiment {
	out := make([]models.QuantumExperiment, len(templates))
	copy(out, templates)
	return out
}

// GetExperiment looks up a catalog template by ID.
func GetExperiment(id string) (models.QuantumExperiment, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.QuantumExperiment{}, false
}
