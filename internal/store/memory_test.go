package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dnalang/aura-orchestrator/internal/store"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// newTestStore creates a fresh in-memory store for tests.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	// Use a temp dir so tests don't write to ~/.aura/
	dir := t.TempDir()
	os.Setenv("AURA_DATA_DIR", dir)
	defer os.Unsetenv("AURA_DATA_DIR")
	s := store.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

// ─── Run CRUD ────────────────────────────────────────────────

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.OrchestrationRun{
		ID:     "run-1",
		UserID: "alice",
		Input:  "write a parser",
		Mode:   models.ModeDev,
		Status: models.RunPlanned,
	}

	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.UserID != "alice" {
		t.Errorf("GetRun().UserID = %q, want %q", got.UserID, "alice")
	}
	if got.Status != models.RunPlanned {
		t.Errorf("GetRun().Status = %q, want %q", got.Status, models.RunPlanned)
	}
	if got.CreatedAt.IsZero() {
		t.Error("GetRun().CreatedAt is zero, want auto-populated")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	if err == nil {
		t.Fatal("GetRun() error = nil, want ErrNotFound")
	}
	var nf *store.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("GetRun() error = %T, want *store.ErrNotFound", err)
	}
}

func TestUpdateRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.OrchestrationRun{ID: "run-2", UserID: "bob", Status: models.RunPlanned}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	run.Status = models.RunExecuted
	if err := s.UpdateRun(ctx, run); err != nil {
		t.Fatalf("UpdateRun() error = %v", err)
	}

	got, _ := s.GetRun(ctx, "run-2")
	if got.Status != models.RunExecuted {
		t.Errorf("After update, Status = %q, want %q", got.Status, models.RunExecuted)
	}
}

func TestUpdateRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateRun(context.Background(), &models.OrchestrationRun{ID: "ghost"})
	var nf *store.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("UpdateRun() error = %T, want *store.ErrNotFound", err)
	}
}

func TestListRuns_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	s.CreateRun(ctx, &models.OrchestrationRun{ID: "r1", UserID: "alice", CreatedAt: base.Add(-2 * time.Hour)})
	s.CreateRun(ctx, &models.OrchestrationRun{ID: "r2", UserID: "bob", CreatedAt: base.Add(-1 * time.Hour)})
	s.CreateRun(ctx, &models.OrchestrationRun{ID: "r3", UserID: "alice", CreatedAt: base})

	all, err := s.ListRuns(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns(all) returned %d runs, want 3", len(all))
	}
	if all[0].ID != "r3" {
		t.Errorf("ListRuns()[0].ID = %q, want newest first (r3)", all[0].ID)
	}

	alice, _ := s.ListRuns(ctx, "alice", 10)
	if len(alice) != 2 {
		t.Fatalf("ListRuns(alice) returned %d runs, want 2", len(alice))
	}
	for _, r := range alice {
		if r.UserID != "alice" {
			t.Errorf("ListRuns(alice) returned run for %q", r.UserID)
		}
	}

	limited, _ := s.ListRuns(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("ListRuns(limit=1) returned %d runs, want 1", len(limited))
	}
}

func TestGetRun_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateRun(ctx, &models.OrchestrationRun{ID: "r1", Status: models.RunPlanned})

	got, _ := s.GetRun(ctx, "r1")
	got.Status = models.RunFailed

	again, _ := s.GetRun(ctx, "r1")
	if again.Status != models.RunPlanned {
		t.Errorf("mutating a returned run leaked into the store: Status = %q", again.Status)
	}
}

// ─── Usage ───────────────────────────────────────────────────

func TestGetUsage_ZeroRecordForNewUser(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.GetUsage(context.Background(), "carol", "2026-08")
	if err != nil {
		t.Fatalf("GetUsage() error = %v", err)
	}
	if rec.QuantumExecutions != 0 || rec.WorkflowRuns != 0 {
		t.Errorf("GetUsage() for new user = %+v, want zero counters", rec)
	}
	if rec.UserID != "carol" || rec.Month != "2026-08" {
		t.Errorf("GetUsage() keys = %q/%q, want carol/2026-08", rec.UserID, rec.Month)
	}
}

func TestIncrementUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.IncrementUsage(ctx, "carol", "2026-08", models.UsageQuantumExecutions)
	if err != nil {
		t.Fatalf("IncrementUsage() error = %v", err)
	}
	if n != 1 {
		t.Errorf("first IncrementUsage() = %d, want 1", n)
	}

	n, _ = s.IncrementUsage(ctx, "carol", "2026-08", models.UsageQuantumExecutions)
	if n != 2 {
		t.Errorf("second IncrementUsage() = %d, want 2", n)
	}

	// Other counter and other month stay independent.
	n, _ = s.IncrementUsage(ctx, "carol", "2026-08", models.UsageWorkflowRuns)
	if n != 1 {
		t.Errorf("IncrementUsage(workflow) = %d, want 1", n)
	}
	n, _ = s.IncrementUsage(ctx, "carol", "2026-09", models.UsageQuantumExecutions)
	if n != 1 {
		t.Errorf("IncrementUsage(next month) = %d, want 1", n)
	}

	rec, _ := s.GetUsage(ctx, "carol", "2026-08")
	if rec.QuantumExecutions != 2 || rec.WorkflowRuns != 1 {
		t.Errorf("GetUsage() = %+v, want quantum=2 workflow=1", rec)
	}
}

// ─── Persistence ─────────────────────────────────────────────

func TestSnapshotSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("AURA_DATA_DIR", dir)
	defer os.Unsetenv("AURA_DATA_DIR")

	s1 := store.NewMemoryStore()
	ctx := context.Background()
	s1.CreateRun(ctx, &models.OrchestrationRun{ID: "persist-1", UserID: "dave"})
	s1.IncrementUsage(ctx, "dave", "2026-08", models.UsageWorkflowRuns)
	if err := s1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2 := store.NewMemoryStore()
	t.Cleanup(func() { s2.Close() })

	got, err := s2.GetRun(ctx, "persist-1")
	if err != nil {
		t.Fatalf("GetRun() after restart error = %v", err)
	}
	if got.UserID != "dave" {
		t.Errorf("restored run UserID = %q, want %q", got.UserID, "dave")
	}

	rec, _ := s2.GetUsage(ctx, "dave", "2026-08")
	if rec.WorkflowRuns != 1 {
		t.Errorf("restored usage WorkflowRuns = %d, want 1", rec.WorkflowRuns)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
