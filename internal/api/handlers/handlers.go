// Package handlers implements the HTTP handlers for the orchestrator.
// All handlers depend on the Store interface and the sub-orchestrators,
// so tests can swap in fakes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/internal/agents"
	"github.com/dnalang/aura-orchestrator/internal/api/middleware"
	"github.com/dnalang/aura-orchestrator/internal/devflow"
	"github.com/dnalang/aura-orchestrator/internal/intent"
	"github.com/dnalang/aura-orchestrator/internal/quantum"
	"github.com/dnalang/aura-orchestrator/internal/store"
	"github.com/dnalang/aura-orchestrator/internal/usage"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Store      store.Store
	Classifier *intent.Classifier
	Quantum    *quantum.Orchestrator
	Dev        *devflow.Orchestrator
	Usage      *usage.Tracker

	// MaxInputLength rejects oversized inputs before any parsing.
	MaxInputLength int
}

// New creates a new Handlers instance with all dependencies.
func New(s store.Store, classifier *intent.Classifier, q *quantum.Orchestrator, dev *devflow.Orchestrator, tracker *usage.Tracker, maxInput int) *Handlers {
	return &Handlers{
		Store:          s,
		Classifier:     classifier,
		Quantum:        q,
		Dev:            dev,
		Usage:          tracker,
		MaxInputLength: maxInput,
	}
}

// ── Orchestration ────────────────────────────────────────────

type orchestrateRequest struct {
	Input   string                 `json:"input"`
	Mode    models.RunMode         `json:"mode"`
	Execute bool                   `json:"execute"`
	Context map[string]interface{} `json:"context"`
}

// Orchestrate is the main natural-language orchestration endpoint.
// Mode "quantum" and "dev" force a sub-orchestrator; anything else
// auto-detects from the classified intent.
func (h *Handlers) Orchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		respondError(w, http.StatusBadRequest, "Input is required")
		return
	}
	if h.MaxInputLength > 0 && len(req.Input) > h.MaxInputLength {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Input exceeds %d bytes", h.MaxInputLength))
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModeAuto
	}

	userID := middleware.GetUserID(r.Context())

	switch req.Mode {
	case models.ModeQuantum:
		h.orchestrateQuantum(w, r, req, userID)
	case models.ModeDev:
		h.orchestrateDev(w, r, req, userID)
	default:
		it := h.Classifier.Classify(req.Input)
		if it.Category == models.IntentQuantumExperiment || it.Category == models.IntentQuantumCircuit {
			h.orchestrateQuantum(w, r, req, userID)
		} else {
			h.orchestrateDev(w, r, req, userID)
		}
	}
}

func (h *Handlers) orchestrateQuantum(w http.ResponseWriter, r *http.Request, req orchestrateRequest, userID string) {
	match := h.Quantum.ParseRequest(req.Input)
	exp := match.Experiment

	run := &models.OrchestrationRun{
		ID:         uuid.New().String(),
		UserID:     userID,
		Input:      req.Input,
		Mode:       models.ModeQuantum,
		Experiment: &exp,
		Status:     models.RunPlanned,
	}

	var result *models.ExperimentResult
	var validation *models.ValidationReport
	if req.Execute {
		check, err := h.Usage.Allow(r.Context(), userID, models.UsageQuantumExecutions)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !check.Allowed {
			respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"success": false,
				"mode":    models.ModeQuantum,
				"error":   check.Reason,
				"limit":   check.Limit,
			})
			return
		}

		res := h.Quantum.Execute(exp, userID)
		result = &res
		report := h.Quantum.ValidateResult(res, exp)
		validation = &report
		run.Result = result
		run.Status = models.RunExecuted
	}

	if err := h.Store.CreateRun(r.Context(), run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
	}

	nextSteps := []string{
		"Set execute=true to run the experiment",
		"Review experiment parameters",
		"Check backend availability",
	}
	if req.Execute {
		nextSteps = []string{
			"Review experimental results",
			"Compare metrics with expected values",
			"Run validation analysis",
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"mode":        models.ModeQuantum,
		"run_id":      run.ID,
		"confidence":  match.Confidence,
		"experiment":  exp,
		"result":      result,
		"validation":  validation,
		"suggestions": match.Suggestions,
		"next_steps":  nextSteps,
	})
}

func (h *Handlers) orchestrateDev(w http.ResponseWriter, r *http.Request, req orchestrateRequest, userID string) {
	proc, err := h.Dev.Process(req.Input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run := &models.OrchestrationRun{
		ID:     uuid.New().String(),
		UserID: userID,
		Input:  req.Input,
		Mode:   models.ModeDev,
		Intent: &proc.Intent,
		Plan:   proc.Plan,
		Status: models.RunPlanned,
	}
	if proc.Workflow != nil {
		run.Workflow = proc.Workflow.ID
	}

	var execution *models.WorkflowRunResult
	if req.Execute && proc.Workflow != nil {
		check, err := h.Usage.Allow(r.Context(), userID, models.UsageWorkflowRuns)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !check.Allowed {
			respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"success": false,
				"mode":    models.ModeDev,
				"error":   check.Reason,
				"limit":   check.Limit,
			})
			return
		}

		execution, err = h.Dev.ExecuteWorkflow(r.Context(), proc.Workflow.ID, req.Context, nil)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if execution.Success {
			run.Status = models.RunExecuted
		} else {
			run.Status = models.RunFailed
			run.Error = fmt.Sprintf("%d step errors", len(execution.Errors))
		}
	}

	if err := h.Store.CreateRun(r.Context(), run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"mode":    models.ModeDev,
		"run_id":  run.ID,
		"intent": map[string]interface{}{
			"type":       proc.Intent.Category,
			"confidence": proc.Intent.Confidence,
			"complexity": proc.Intent.Complexity,
			"entities":   proc.Intent.Entities,
		},
		"workflow":           proc.Workflow,
		"orchestration_plan": planPayload(proc.Plan),
		"execution":          execution,
		"suggestions":        proc.Suggestions,
		"next_steps":         devNextSteps(proc),
	})
}

func planPayload(p *models.OrchestrationPlan) map[string]interface{} {
	tasks := make([]map[string]interface{}, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = map[string]interface{}{
			"agent":        t.Agent,
			"task_type":    t.Task.Type,
			"description":  t.Task.Description,
			"priority":     t.Priority,
			"dependencies": t.Dependencies,
		}
	}
	return map[string]interface{}{
		"tasks":              tasks,
		"execution_order":    p.ExecutionOrder,
		"estimated_duration": p.EstimatedDuration,
		"requires_approval":  p.RequiresApproval,
	}
}

func devNextSteps(proc *devflow.ProcessResult) []string {
	if proc.Workflow != nil {
		return []string{
			fmt.Sprintf("Execute %s workflow", proc.Workflow.Name),
			fmt.Sprintf("%d steps to complete", len(proc.Workflow.Steps)),
			fmt.Sprintf("Estimated time: ~%d minutes", int(math.Round(float64(proc.Workflow.EstimatedTime)/60))),
		}
	}
	approval := "Ready for auto-execution"
	if proc.Plan.RequiresApproval {
		approval = "Requires manual approval before execution"
	}
	return []string{
		"Custom orchestration plan generated",
		fmt.Sprintf("%d agents will be coordinated", len(proc.Plan.Tasks)),
		approval,
	}
}

// OrchestrateCatalog lists available workflows and experiments.
// GET /api/v1/orchestrate?mode=quantum|dev; no mode returns a summary.
func (h *Handlers) OrchestrateCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("mode") {
	case "quantum":
		experiments := quantum.ListExperiments()
		out := make([]map[string]interface{}, len(experiments))
		for i, exp := range experiments {
			out[i] = map[string]interface{}{
				"id":           exp.ID,
				"name":         exp.Name,
				"description":  exp.Description,
				"circuit_type": exp.CircuitType,
				"num_qubits":   exp.NumQubits,
				"backend":      exp.Backend,
			}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"mode":        "quantum",
			"experiments": out,
		})

	case "dev":
		workflows := devflow.ListWorkflows()
		out := make([]map[string]interface{}, len(workflows))
		for i, wf := range workflows {
			out[i] = map[string]interface{}{
				"id":             wf.ID,
				"name":           wf.Name,
				"description":    wf.Description,
				"steps":          len(wf.Steps),
				"estimated_time": wf.EstimatedTime,
			}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"mode":      "dev",
			"workflows": out,
		})

	default:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"quantum_experiments": len(quantum.ListExperiments()),
			"dev_workflows":       len(devflow.ListWorkflows()),
			"modes":               []models.RunMode{models.ModeAuto, models.ModeDev, models.ModeQuantum, models.ModeResearch},
		})
	}
}

// ── Experiments ──────────────────────────────────────────────

func (h *Handlers) ListExperiments(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		respondJSON(w, http.StatusOK, h.Quantum.SuggestExperiments(q))
		return
	}
	respondJSON(w, http.StatusOK, quantum.ListExperiments())
}

func (h *Handlers) GetExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "experimentID")
	exp, ok := quantum.GetExperiment(id)
	if !ok {
		respondError(w, http.StatusNotFound, "experiment not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, exp)
}

// ExecuteExperiment runs a catalog experiment. Usage-gated.
func (h *Handlers) ExecuteExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "experimentID")
	exp, ok := quantum.GetExperiment(id)
	if !ok {
		respondError(w, http.StatusNotFound, "experiment not found: "+id)
		return
	}

	userID := middleware.GetUserID(r.Context())
	check, err := h.Usage.Allow(r.Context(), userID, models.UsageQuantumExecutions)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !check.Allowed {
		respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": check.Reason,
			"limit": check.Limit,
		})
		return
	}

	result := h.Quantum.Execute(exp, userID)
	validation := h.Quantum.ValidateResult(result, exp)

	run := &models.OrchestrationRun{
		ID:         uuid.New().String(),
		UserID:     userID,
		Input:      "execute experiment " + id,
		Mode:       models.ModeQuantum,
		Experiment: &exp,
		Result:     &result,
		Status:     models.RunExecuted,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.CreateRun(r.Context(), run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     run.ID,
		"result":     result,
		"validation": validation,
		"remaining":  check.Remaining,
	})
}

// ── Workflows ────────────────────────────────────────────────

func (h *Handlers) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, devflow.ListWorkflows())
}

func (h *Handlers) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workflowID")
	wf, ok := devflow.GetWorkflow(id)
	if !ok {
		respondError(w, http.StatusNotFound, "workflow not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, wf)
}

type executeWorkflowRequest struct {
	Context map[string]interface{} `json:"context"`
}

// ExecuteWorkflow runs a catalog workflow end to end. Usage-gated.
func (h *Handlers) ExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workflowID")
	wf, ok := devflow.GetWorkflow(id)
	if !ok {
		respondError(w, http.StatusNotFound, "workflow not found: "+id)
		return
	}

	var req executeWorkflowRequest
	if r.Body != nil {
		// Body is optional; ignore decode errors from an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	userID := middleware.GetUserID(r.Context())
	check, err := h.Usage.Allow(r.Context(), userID, models.UsageWorkflowRuns)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !check.Allowed {
		respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": check.Reason,
			"limit": check.Limit,
		})
		return
	}

	result, err := h.Dev.ExecuteWorkflow(r.Context(), wf.ID, req.Context, nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := models.RunExecuted
	if !result.Success {
		status = models.RunFailed
	}
	run := &models.OrchestrationRun{
		ID:       uuid.New().String(),
		UserID:   userID,
		Input:    "execute workflow " + id,
		Mode:     models.ModeDev,
		Workflow: wf.ID,
		Status:   status,
	}
	if err := h.Store.CreateRun(r.Context(), run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":    run.ID,
		"workflow":  wf.ID,
		"success":   result.Success,
		"artifacts": result.Artifacts,
		"errors":    result.Errors,
		"remaining": check.Remaining,
	})
}

// ── Agents ───────────────────────────────────────────────────

func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, agents.Profiles())
}

func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "agentID")
	p, ok := agents.Profile(models.Agent(id))
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+id)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ── Runs ─────────────────────────────────────────────────────

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.Store.ListRuns(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		var nf *store.ErrNotFound
		if errors.As(err, &nf) {
			respondError(w, http.StatusNotFound, err.Error())
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// ── Usage ────────────────────────────────────────────────────

func (h *Handlers) GetUsage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Usage.Current(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
