package routing

import (
	"testing"
	"transport-planning-service/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func diamond(t *testing.T) *domain.RoadGraph {
	t.Helper()

	g := domain.NewRoadGraph()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if err := g.AddLocation(domain.Location{Name: name}); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}
	roads := []struct {
		from, to, name string
		length         int
	}{
		{"A", "B", "ab", 4},
		{"A", "C", "ac", 1},
		{"C", "B", "cb", 1},
		{"B", "D", "bd", 1},
		{"A", "D", "ad-long", 10},
		{"A", "D", "ad-short", 7},
	}
	for _, r := range roads {
		if err := g.AddRoad(r.from, r.to, domain.Road{Name: r.name, Length: r.length}); err != nil {
			t.Fatalf("add road: %v", err)
		}
	}
	return g
}

func TestMatrixDistances(t *testing.T) {
	m := NewMatrix(diamond(t))

	tests := []struct {
		from, to string
		want     int
	}{
		{"A", "A", 0},
		{"A", "B", 2},
		{"A", "D", 3},
		{"C", "D", 2},
		{"D", "A", Unreachable},
		{"A", "E", Unreachable},
		{"A", "missing", Unreachable},
	}
	for _, tt := range tests {
		if got := m.Distance(tt.from, tt.to); got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMatrixPath(t *testing.T) {
	m := NewMatrix(diamond(t))

	p, ok := m.Path("A", "D")
	if !ok {
		t.Fatal("no path from A to D")
	}
	if p.Distance != 3 {
		t.Fatalf("distance = %d, want 3", p.Distance)
	}
	if diff := cmp.Diff([]string{"A", "C", "B", "D"}, p.Locations()); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}

	if _, ok := m.Path("D", "A"); ok {
		t.Fatal("path from D to A exists, want none")
	}
	if p, ok := m.Path("B", "B"); !ok || len(p.Roads) != 0 {
		t.Fatalf("Path(B, B) = %+v, %v", p, ok)
	}
}

func TestMatrixPrefersShortestParallelRoad(t *testing.T) {
	g := domain.NewRoadGraph()
	_ = g.AddLocation(domain.Location{Name: "X"})
	_ = g.AddLocation(domain.Location{Name: "Y"})
	_ = g.AddRoad("X", "Y", domain.Road{Name: "slow", Length: 9})
	_ = g.AddRoad("X", "Y", domain.Road{Name: "fast", Length: 2})

	p, ok := NewMatrix(g).Path("X", "Y")
	if !ok || len(p.Roads) != 1 || p.Roads[0].Road.Name != "fast" {
		t.Fatalf("path = %+v, want single road fast", p)
	}
}
