package domain

import (
	"testing"
)

func lineGraph(t *testing.T) *RoadGraph {
	t.Helper()

	g := NewRoadGraph()
	for _, name := range []string{"A", "B", "C"} {
		if err := g.AddLocation(Location{Name: name}); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}
	if err := g.AddRoad("A", "B", Road{Name: "ab", Length: 10, FuelCost: 4}); err != nil {
		t.Fatalf("add road: %v", err)
	}
	if err := g.AddRoad("B", "C", Road{Name: "bc", Length: 5, FuelCost: 2}); err != nil {
		t.Fatalf("add road: %v", err)
	}
	return g
}

func TestProblemMutationsCopyOnWrite(t *testing.T) {
	g := lineGraph(t)
	p := NewProblem("p", g,
		[]Vehicle{{Name: "v1", Location: "A", CurCapacity: 2, MaxCapacity: 2}},
		[]Package{{Name: "p1", Location: "A", Target: "B", Size: 1}},
	)

	moved := p.PutVehicle(Vehicle{Name: "v1", Location: "C", CurCapacity: 2, MaxCapacity: 2})
	if v, _ := p.Vehicle("v1"); v.Location != "A" {
		t.Fatalf("receiver vehicle location = %q, want A", v.Location)
	}
	if v, _ := moved.Vehicle("v1"); v.Location != "C" {
		t.Fatalf("new vehicle location = %q, want C", v.Location)
	}

	added := p.PutVehicle(Vehicle{Name: "v0", Location: "B"})
	if got := len(p.Vehicles()); got != 1 {
		t.Fatalf("receiver vehicles = %d, want 1", got)
	}
	if vs := added.Vehicles(); len(vs) != 2 || vs[0].Name != "v0" {
		t.Fatalf("vehicles not ordered by name: %+v", vs)
	}

	removed := p.RemovePackage("p1")
	if _, ok := p.Package("p1"); !ok {
		t.Fatal("receiver lost package p1")
	}
	if _, ok := removed.Package("p1"); ok {
		t.Fatal("package p1 still present after remove")
	}

	renamed := p.Rename("q")
	if p.Name() != "p" || renamed.Name() != "q" {
		t.Fatalf("rename: got %q and %q", p.Name(), renamed.Name())
	}

	withStation := p.PutLocation(Location{Name: "D", PetrolStation: true})
	if _, ok := p.Graph().Location("D"); ok {
		t.Fatal("PutLocation changed the shared graph")
	}
	if l, ok := withStation.Graph().Location("D"); !ok || !l.PetrolStation {
		t.Fatalf("PutLocation: got %+v, %v", l, ok)
	}
}

func TestProblemEqual(t *testing.T) {
	g := lineGraph(t)
	vehicles := []Vehicle{{Name: "v1", Location: "A", Packages: []string{"p2"}}}
	packages := []Package{{Name: "p1", Location: "A", Target: "B"}, {Name: "p2", Target: "C"}}

	a := NewProblem("p", g, vehicles, packages)
	b := NewProblem("p", lineGraph(t), vehicles, packages)
	if !a.Equal(b) {
		t.Fatal("identical problems are not equal")
	}
	if a.Equal(b.Rename("other")) {
		t.Fatal("problems with different names are equal")
	}
}

func TestRoadGraphRejectsBadRoads(t *testing.T) {
	g := lineGraph(t)

	if err := g.AddRoad("A", "Z", Road{Name: "az"}); err == nil {
		t.Fatal("expected error for unknown location")
	}
	if err := g.AddRoad("A", "C", Road{Name: "ab"}); err == nil {
		t.Fatal("expected error for duplicate road")
	}
	if err := g.AddRoad("A", "C", Road{Name: "ac", Length: -1}); err == nil {
		t.Fatal("expected error for negative length")
	}
	if got := len(g.OutRoads("A")); got != 1 {
		t.Fatalf("out roads of A = %d, want 1", got)
	}
}
