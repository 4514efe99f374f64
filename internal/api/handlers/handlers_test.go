package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnalang/aura-orchestrator/internal/agents"
	"github.com/dnalang/aura-orchestrator/internal/api"
	"github.com/dnalang/aura-orchestrator/internal/api/handlers"
	"github.com/dnalang/aura-orchestrator/internal/config"
	"github.com/dnalang/aura-orchestrator/internal/devflow"
	"github.com/dnalang/aura-orchestrator/internal/intent"
	"github.com/dnalang/aura-orchestrator/internal/plan"
	"github.com/dnalang/aura-orchestrator/internal/quantum"
	"github.com/dnalang/aura-orchestrator/internal/store"
	"github.com/dnalang/aura-orchestrator/internal/usage"
)

// newTestServer wires a full router over a fresh in-memory store, the way
// pkg/server does, minus telemetry init.
func newTestServer(t *testing.T) (http.Handler, store.Store) {
	t.Setenv("AURA_DATA_DIR", t.TempDir())
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })

	classifier := intent.NewClassifier()
	builder := plan.NewBuilder()
	dev := devflow.NewOrchestrator(classifier, builder, agents.NewMockExecutor())
	tracker := usage.NewTracker(s, nil)

	h := handlers.New(s, classifier, quantum.NewOrchestrator(), dev, tracker, 8192)
	return api.NewRouter(config.Load(), h), s
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestOrchestrateAutoRoutesQuantumIntent(t *testing.T) {
	router, _ := newTestServer(t)

	// No mode in the body; the classified quantum intent selects the
	// quantum sub-orchestrator.
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/orchestrate",
		`{"input":"Run a GHZ state experiment to test entanglement"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quantum", resp["mode"])
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["result"], "execute not requested")

	exp, ok := resp["experiment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ghz-coherence", exp["id"])
	assert.NotEmpty(t, resp["next_steps"])
}

func TestOrchestrateQuotaDenied(t *testing.T) {
	router, s := newTestServer(t)

	// Exhaust the free-tier quantum quota for the anonymous user.
	ctx := context.Background()
	month := time.Now().UTC().Format("2006-01")
	for i := 0; i < 100; i++ {
		_, err := s.IncrementUsage(ctx, "anonymous", month, "quantum_executions")
		require.NoError(t, err)
	}

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/orchestrate",
		`{"input":"Run a GHZ state experiment to test entanglement","mode":"quantum","execute":true}`)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "quantum", resp["mode"])
	assert.Contains(t, resp["error"], "limit exceeded")
	assert.Equal(t, float64(100), resp["limit"])
}

func TestOrchestrateCatalogByMode(t *testing.T) {
	router, _ := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/orchestrate?mode=quantum", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quantum", resp["mode"])
	experiments, ok := resp["experiments"].([]interface{})
	require.True(t, ok)
	assert.Len(t, experiments, 6)

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/orchestrate?mode=dev", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", resp["mode"])
	workflows, ok := resp["workflows"].([]interface{})
	require.True(t, ok)
	assert.Len(t, workflows, 5)

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/orchestrate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(6), resp["quantum_experiments"])
	assert.Equal(t, float64(5), resp["dev_workflows"])
	modes, ok := resp["modes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, modes, 4)
}

func TestGetRunNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/runs/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, resp["error"], "not found")
}

func TestOrchestratePersistsRun(t *testing.T) {
	router, s := newTestServer(t)

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/orchestrate",
		`{"input":"Fix the login bug in the authentication service","mode":"dev"}`)

	runID, ok := resp["run_id"].(string)
	require.True(t, ok)

	run, err := s.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", run.UserID)
	assert.Equal(t, "bug-fix", run.Workflow)
}
