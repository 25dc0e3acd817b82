package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
	"transport-planning-service/internal/adapters/repositories"
	"transport-planning-service/internal/api/dto"
	"transport-planning-service/internal/services"

	_ "modernc.org/sqlite"
)

const singleDelivery = `{
	"name": "single",
	"locations": [{"name": "A"}, {"name": "B"}],
	"roads": [{"name": "ab", "from": "A", "to": "B", "length": 10, "two_way": true}],
	"vehicles": [{"name": "v1", "location": "A", "capacity": 1}],
	"packages": [{"name": "p1", "location": "A", "target": "B", "size": 1}]
}`

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	opts := services.DefaultPlannerOptions()
	opts.Logger = log.New(io.Discard, "", 0)
	srv := httptest.NewServer(NewRouter(repositories.NewSqliteRunRepository(db), opts, time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func postPlan(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /plans: %v", err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, b
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatal("response has no X-Request-ID")
	}

	res, err = http.Post(srv.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /health: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.StatusCode)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	res.Body.Close()
	if got := res.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestPlanAndListRuns(t *testing.T) {
	srv := newTestServer(t)

	res, body := postPlan(t, srv, `{"planner": "bfs", "problem": `+singleDelivery+`}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.StatusCode, body)
	}

	var plan dto.PlanResponse
	if err := json.Unmarshal(body, &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if !plan.Found || plan.Score != 10 || len(plan.Actions) != 3 {
		t.Fatalf("plan = %+v, want found with score 10 and 3 actions", plan)
	}
	if plan.Actions[1].Action != "drive(v1, A, B, ab)" || plan.Actions[1].End != 10 {
		t.Fatalf("second action = %+v", plan.Actions[1])
	}

	runsRes, err := http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	defer runsRes.Body.Close()

	var runs dto.ListRunsResponse
	if err := json.NewDecoder(runsRes.Body).Decode(&runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs.Runs) != 1 || runs.Runs[0].RunID != plan.RunID || runs.Runs[0].Problem != "single" {
		t.Fatalf("runs = %+v, want the run just planned", runs.Runs)
	}
}

func TestPlanTemporal(t *testing.T) {
	srv := newTestServer(t)

	res, body := postPlan(t, srv, `{"planner": "astar", "score": "time", "temporal": true, "problem": `+singleDelivery+`}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.StatusCode, body)
	}

	var plan dto.PlanResponse
	if err := json.Unmarshal(body, &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Makespan != 12 {
		t.Fatalf("makespan = %d, want 12", plan.Makespan)
	}
}

func TestPlanRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown field", `{"planer": "bfs"}`},
		{"two objects", `{} {}`},
		{"bad timeout", `{"timeout_ms": -1, "problem": ` + singleDelivery + `}`},
		{"unknown planner", `{"planner": "dijkstra", "problem": ` + singleDelivery + `}`},
		{"unknown location", `{"problem": {"locations": [{"name": "A"}], "vehicles": [{"name": "v", "location": "Z"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := postPlan(t, srv, tt.body)
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s, want 400", res.StatusCode, body)
			}
		})
	}
}

func TestListRunsLimit(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/runs?limit=0")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}
