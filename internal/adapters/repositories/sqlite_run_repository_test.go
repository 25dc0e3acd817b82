package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"transport-planning-service/internal/domain"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func TestSqliteRunRepositoryRoundTrip(t *testing.T) {
	repo := NewSqliteRunRepository(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := domain.PlanRun{
		RunID:      "run-1",
		Problem:    "single",
		Planner:    "bfs",
		Found:      true,
		Score:      10,
		Actions:    []string{"pickup(v1, A, p1)", "drive(v1, A, B, ab)", "drop(v1, B, p1)"},
		Makespan:   10,
		DurationMs: 3,
		CreatedAt:  base,
	}
	newer := domain.PlanRun{
		RunID:     "run-2",
		Problem:   "island",
		Planner:   "randomized",
		Actions:   []string{},
		CreatedAt: base.Add(time.Minute),
	}

	for _, run := range []domain.PlanRun{older, newer} {
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun(%s): %v", run.RunID, err)
		}
	}

	runs, err := repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if diff := cmp.Diff([]domain.PlanRun{newer, older}, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}

	limited, err := repo.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != "run-2" {
		t.Fatalf("limited = %+v, want only run-2", limited)
	}
}

func TestSqliteRunRepositoryDuplicateRun(t *testing.T) {
	repo := NewSqliteRunRepository(openTestDB(t))
	run := domain.PlanRun{RunID: "dup", CreatedAt: time.Now()}

	if err := repo.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := repo.SaveRun(context.Background(), run); err == nil {
		t.Fatal("duplicate run id accepted")
	}
}

func TestNilDB(t *testing.T) {
	if err := InitSchema(nil); err == nil {
		t.Fatal("InitSchema(nil) succeeded")
	}
	if err := (&SqliteRunRepository{}).SaveRun(context.Background(), domain.PlanRun{}); err == nil {
		t.Fatal("SaveRun without DB succeeded")
	}
	if _, err := (&SQLRunRepository{}).ListRuns(context.Background(), 1); err == nil {
		t.Fatal("ListRuns without DB succeeded")
	}
}
