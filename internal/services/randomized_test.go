package services

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/routing"
)

func withTimeout(t *testing.T, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

func TestRandomizedSingleDelivery(t *testing.T) {
	d := domain.NewSequentialDomain()
	p := singleDelivery(t)

	plan, ok := quietRandomized().Plan(withTimeout(t, 100*time.Millisecond), d, p)
	if !ok {
		t.Fatal("no plan found")
	}
	if cost := domain.ScoreTotalCost(d, p, plan); cost != 10 {
		t.Fatalf("total cost = %g, want 10", cost)
	}
}

func TestRandomizedPicksUpAlongTheWay(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A", "B", "C"), []testRoad{
		{"A", "B", "ab", 10, 0},
		{"B", "A", "ba", 10, 0},
		{"B", "C", "bc", 10, 0},
		{"C", "B", "cb", 10, 0},
	})
	p := domain.NewProblem("along", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 2, MaxCapacity: 2}},
		[]domain.Package{
			{Name: "p1", Location: "A", Target: "B", Size: 1},
			{Name: "p2", Location: "A", Target: "C", Size: 1},
		},
	)

	var improvements []float64
	r := quietRandomized()
	r.OnImprovement = func(_ domain.Plan, score float64) { improvements = append(improvements, score) }

	plan, ok := r.Plan(withTimeout(t, 200*time.Millisecond), d, p)
	if !ok {
		t.Fatal("no plan found")
	}
	if cost := domain.ScoreTotalCost(d, p, plan); cost != 20 {
		t.Fatalf("total cost = %g, want 20", cost)
	}
	if len(improvements) == 0 {
		t.Fatal("OnImprovement never called")
	}
	for i := 1; i < len(improvements); i++ {
		if improvements[i] >= improvements[i-1] {
			t.Fatalf("improvements = %v, want strictly decreasing scores", improvements)
		}
	}
}

func TestRandomizedNoPlanOnDisconnectedGraph(t *testing.T) {
	d := domain.NewSequentialDomain()
	g := buildGraph(t, locs("A", "B", "Z"), []testRoad{{"A", "B", "ab", 1, 0}})
	p := domain.NewProblem("island", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "Z", Size: 1}},
	)

	if _, ok := quietRandomized().Plan(withTimeout(t, 50*time.Millisecond), d, p); ok {
		t.Fatal("found a plan to an unreachable target")
	}
}

func TestRandomizedRefuelsAtStation(t *testing.T) {
	d := domain.New(domain.Options{Name: "fuel", Labels: domain.Labels{Capacity: true, Fuel: true}})
	g := buildGraph(t,
		[]domain.Location{{Name: "A", PetrolStation: true}, {Name: "B"}},
		[]testRoad{{"A", "B", "ab", 10, 5}, {"B", "A", "ba", 10, 5}},
	)
	p := domain.NewProblem("fuel", g,
		[]domain.Vehicle{{Name: "v1", Location: "A", CurCapacity: 1, MaxCapacity: 1, CurFuel: 0, MaxFuel: 10}},
		[]domain.Package{{Name: "p1", Location: "A", Target: "B", Size: 1}},
	)

	plan, ok := quietRandomized().Plan(withTimeout(t, 100*time.Millisecond), d, p)
	if !ok {
		t.Fatal("no plan found")
	}
	if !slices.Contains(actionNames(plan), "refuel(v1, A)") {
		t.Fatalf("plan %v has no refuel", actionNames(plan))
	}
}

func TestRefuelProbabilityEscalates(t *testing.T) {
	r := &Randomized{RefuelMin: 0.01, RefuelMax: 0.1, RefuelStep: 2, RefuelEvery: 10}

	tests := []struct {
		sinceBest int
		want      float64
	}{
		{0, 0.01},
		{9, 0.01},
		{10, 0.02},
		{25, 0.04},
		{40, 0.1},
		{1000, 0.1},
	}
	for _, tt := range tests {
		if got := r.refuelProbability(tt.sinceBest); got != tt.want {
			t.Fatalf("refuelProbability(%d) = %g, want %g", tt.sinceBest, got, tt.want)
		}
	}
}

func TestNearestBreaksTiesByName(t *testing.T) {
	if i := nearest([]string{"far", "near"}, []int{100, 1}); i != 1 {
		t.Fatalf("nearest = %d, want 1", i)
	}
	if i := nearest([]string{"b", "a"}, []int{3, 3}); i != 1 {
		t.Fatalf("nearest tie = %d, want 1", i)
	}
	if i := nearest([]string{"a"}, []int{routing.Unreachable}); i != -1 {
		t.Fatalf("nearest unreachable = %d, want -1", i)
	}
}

func TestSampleByDistanceSkipsUnreachable(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"gone", "here"}
	dists := []int{routing.Unreachable, 7}

	for range 50 {
		if i := sampleByDistance(rng, names, dists, 0.5); i != 1 {
			t.Fatalf("sampleByDistance = %d, want 1", i)
		}
	}
	if i := sampleByDistance(rng, names, []int{4, 2}, 0); i != 1 {
		t.Fatalf("sampleByDistance at zero temperature = %d, want nearest", i)
	}
}
