package services

import (
	"context"
	"io"
	"log"
	"testing"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/ports"

	"github.com/google/go-cmp/cmp"
)

var quiet = log.New(io.Discard, "", 0)

type testRoad struct {
	from, to, name string
	length, fuel   int
}

func buildGraph(t *testing.T, locations []domain.Location, roads []testRoad) *domain.RoadGraph {
	t.Helper()

	g := domain.NewRoadGraph()
	for _, l := range locations {
		if err := g.AddLocation(l); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}
	for _, r := range roads {
		if err := g.AddRoad(r.from, r.to, domain.Road{Name: r.name, Length: r.length, FuelCost: r.fuel}); err != nil {
			t.Fatalf("add road: %v", err)
		}
	}
	return g
}

func locs(names ...string) []domain.Location {
	out := make([]domain.Location, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Location{Name: n})
	}
	return out
}

// Two locations ten apart, one vehicle and one package from A to B.
func singleDelivery(t *testing.T) *domain.Problem {
	t.Helper()

	g := buildGraph(t, locs("A", "B"), []testRoad{
		{"A", "B", "ab", 10, 0},
		{"B", "A", "ba", 10, 0},
	})
	return domain.NewProblem("single", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "B", Size: 1}},
	)
}

func actionNames(plan domain.Plan) []string {
	var out []string
	for _, a := range plan.Actions() {
		out = append(out, a.String())
	}
	return out
}

func TestPlannersSolveSingleDelivery(t *testing.T) {
	d := domain.NewSequentialDomain()
	p := singleDelivery(t)

	planners := map[string]ports.Planner{
		"bfs":   &BFS{Logger: quiet},
		"astar": &AStar{Logger: quiet},
	}

	want := []string{"pickup(v1, A, p1)", "drive(v1, A, B, ab)", "drop(v1, B, p1)"}
	for name, planner := range planners {
		t.Run(name, func(t *testing.T) {
			plan, ok := planner.Plan(context.Background(), d, p)
			if !ok {
				t.Fatal("no plan found")
			}
			if diff := cmp.Diff(want, actionNames(plan)); diff != "" {
				t.Fatalf("plan mismatch (-want +got):\n%s", diff)
			}
			if cost := domain.ScoreTotalCost(d, p, plan); cost != 10 {
				t.Fatalf("total cost = %g, want 10", cost)
			}
		})
	}
}

func TestAStarCostNotAboveBFS(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A", "C", "D"), []testRoad{
		{"A", "D", "ad", 10, 0},
		{"A", "C", "ac", 2, 0},
		{"C", "D", "cd", 2, 0},
	})
	p := domain.NewProblem("detour", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "D", Size: 1}},
	)

	bfsPlan, ok := (&BFS{Logger: quiet}).Plan(context.Background(), d, p)
	if !ok {
		t.Fatal("bfs found no plan")
	}
	astarPlan, ok := (&AStar{Logger: quiet}).Plan(context.Background(), d, p)
	if !ok {
		t.Fatal("astar found no plan")
	}

	if n := len(bfsPlan.Actions()); n != 3 {
		t.Fatalf("bfs actions = %d, want 3", n)
	}
	bfsCost := domain.ScoreTotalCost(d, p, bfsPlan)
	astarCost := domain.ScoreTotalCost(d, p, astarPlan)
	if astarCost > bfsCost {
		t.Fatalf("astar cost %g > bfs cost %g", astarCost, bfsCost)
	}
	if astarCost != 4 {
		t.Fatalf("astar cost = %g, want 4", astarCost)
	}
}

func TestAStarWithAdmissibleHeuristic(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A", "B", "C"), []testRoad{
		{"A", "B", "ab", 5, 0},
		{"B", "C", "bc", 5, 0},
	})
	p := domain.NewProblem("shared", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 2, MaxCapacity: 2}},
		[]domain.Package{
			{Name: "p1", Location: "A", Target: "C", Size: 1},
			{Name: "p2", Location: "A", Target: "C", Size: 1},
		},
	)

	plan, ok := (&AStar{Heuristic: MaxDistance, Logger: quiet}).Plan(context.Background(), d, p)
	if !ok {
		t.Fatal("no plan found")
	}
	if cost := domain.ScoreTotalCost(d, p, plan); cost != 10 {
		t.Fatalf("total cost = %g, want 10", cost)
	}
}

func TestNoPlanOnDisconnectedGraph(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A", "B", "Z"), []testRoad{{"A", "B", "ab", 1, 0}})
	p := domain.NewProblem("island", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "Z", Size: 1}},
	)

	if _, ok := (&BFS{Logger: quiet}).Plan(context.Background(), d, p); ok {
		t.Fatal("bfs found a plan to an unreachable target")
	}
	if _, ok := (&AStar{Logger: quiet}).Plan(context.Background(), d, p); ok {
		t.Fatal("astar found a plan to an unreachable target")
	}
}

func TestSearchStopsWhenCancelled(t *testing.T) {
	d := domain.NewSequentialDomain()
	p := singleDelivery(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := (&BFS{Logger: quiet}).Plan(ctx, d, p); ok {
		t.Fatal("bfs returned a plan after cancellation")
	}
	if _, ok := (&AStar{Logger: quiet}).Plan(ctx, d, p); ok {
		t.Fatal("astar returned a plan after cancellation")
	}
}

func TestEmptyProblemHasEmptyPlan(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A"), nil)
	p := domain.NewProblem("empty", g, []domain.Vehicle{{Name: "v1", Location: "A"}}, nil)

	plan, ok := (&BFS{Logger: quiet}).Plan(context.Background(), d, p)
	if !ok || len(plan.Actions()) != 0 {
		t.Fatalf("plan = %v, %v, want empty plan", plan, ok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	plan, ok = quietRandomized().Plan(ctx, d, p)
	if !ok || len(plan.Actions()) != 0 {
		t.Fatalf("randomized plan = %v, %v, want empty plan", plan, ok)
	}
}

func quietRandomized() *Randomized {
	r := NewRandomized()
	r.Logger = quiet
	return r
}

func TestSearchPlannersRefuel(t *testing.T) {
	d := domain.New(domain.Options{Name: "fuel", Labels: domain.Labels{Capacity: true, Fuel: true}})
	roads := []testRoad{
		{"A", "B", "ab", 5, 6},
		{"B", "C", "bc", 5, 6},
	}
	g := buildGraph(t, []domain.Location{{Name: "A"}, {Name: "B", PetrolStation: true}, {Name: "C"}}, roads)
	p := domain.NewProblem("refuel", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1, CurFuel: 6, MaxFuel: 10}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "C", Size: 1}},
	)
	dry := p.WithGraph(buildGraph(t, locs("A", "B", "C"), roads))

	planners := map[string]ports.Planner{
		"bfs":   &BFS{Logger: quiet},
		"astar": &AStar{Logger: quiet},
	}

	want := []string{
		"pickup(v1, A, p1)",
		"drive(v1, A, B, ab)",
		"refuel(v1, B)",
		"drive(v1, B, C, bc)",
		"drop(v1, C, p1)",
	}
	for name, planner := range planners {
		t.Run(name, func(t *testing.T) {
			plan, ok := planner.Plan(context.Background(), d, p)
			if !ok {
				t.Fatal("no plan found")
			}
			if diff := cmp.Diff(want, actionNames(plan)); diff != "" {
				t.Fatalf("plan mismatch (-want +got):\n%s", diff)
			}

			if plan, ok := planner.Plan(context.Background(), d, dry); ok {
				t.Fatalf("plan without a petrol station = %v, want none", actionNames(plan))
			}
		})
	}
}
