package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateLocation = errors.New("duplicate location")
	ErrUnknownLocation   = errors.New("unknown location")
	ErrDuplicateRoad     = errors.New("duplicate road")
	ErrUnknownRoad       = errors.New("unknown road")
	ErrNegativeRoad      = errors.New("negative road length or fuel cost")
)

// A named place in the road network, identified by name.
type Location struct {
	Name          string
	Coords        Coordinates
	PetrolStation bool
}

// A single road. FuelCost is only consulted by fuel domains.
type Road struct {
	Name     string
	Length   int
	FuelCost int
}

// A directed edge of the road network.
type RoadEdge struct {
	Road Road
	From string
	To   string
}

// Directed multigraph of locations connected by roads.
//
// A graph is populated by a loader before planning starts and is shared
// read-only by every Problem derived from it. Iteration follows insertion
// order so planners stay deterministic.
type RoadGraph struct {
	locations map[string]Location
	order     []string
	edges     []RoadEdge
	out       map[string][]int
	byName    map[string]int
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		locations: make(map[string]Location),
		out:       make(map[string][]int),
		byName:    make(map[string]int),
	}
}

// Add a location to the graph.
func (g *RoadGraph) AddLocation(l Location) error {
	if _, ok := g.locations[l.Name]; ok {
		return fmt.Errorf("add location %q: %w", l.Name, ErrDuplicateLocation)
	}
	g.locations[l.Name] = l
	g.order = append(g.order, l.Name)
	return nil
}

// Add a directed road between two existing locations.
func (g *RoadGraph) AddRoad(from, to string, r Road) error {
	if _, ok := g.locations[from]; !ok {
		return fmt.Errorf("add road %q: from %q: %w", r.Name, from, ErrUnknownLocation)
	}
	if _, ok := g.locations[to]; !ok {
		return fmt.Errorf("add road %q: to %q: %w", r.Name, to, ErrUnknownLocation)
	}
	if _, ok := g.byName[r.Name]; ok {
		return fmt.Errorf("add road %q: %w", r.Name, ErrDuplicateRoad)
	}
	if r.Length < 0 || r.FuelCost < 0 {
		return fmt.Errorf("add road %q: %w", r.Name, ErrNegativeRoad)
	}

	g.byName[r.Name] = len(g.edges)
	g.out[from] = append(g.out[from], len(g.edges))
	g.edges = append(g.edges, RoadEdge{Road: r, From: from, To: to})
	return nil
}

func (g *RoadGraph) Location(name string) (Location, bool) {
	l, ok := g.locations[name]
	return l, ok
}

// Return all locations in insertion order.
func (g *RoadGraph) Locations() []Location {
	out := make([]Location, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.locations[name])
	}
	return out
}

func (g *RoadGraph) PetrolStations() []Location {
	var out []Location
	for _, name := range g.order {
		if l := g.locations[name]; l.PetrolStation {
			out = append(out, l)
		}
	}
	return out
}

// Return the roads leaving a location in insertion order.
func (g *RoadGraph) OutRoads(from string) []RoadEdge {
	idx := g.out[from]
	out := make([]RoadEdge, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.edges[i])
	}
	return out
}

func (g *RoadGraph) Road(name string) (RoadEdge, bool) {
	i, ok := g.byName[name]
	if !ok {
		return RoadEdge{}, false
	}
	return g.edges[i], true
}

func (g *RoadGraph) Edges() []RoadEdge {
	return slices.Clone(g.edges)
}

// Return an independent copy that can be extended without affecting g.
func (g *RoadGraph) Clone() *RoadGraph {
	c := NewRoadGraph()
	for _, name := range g.order {
		c.locations[name] = g.locations[name]
	}
	c.order = slices.Clone(g.order)
	c.edges = slices.Clone(g.edges)
	for k, v := range g.out {
		c.out[k] = slices.Clone(v)
	}
	for k, v := range g.byName {
		c.byName[k] = v
	}
	return c
}

func (g *RoadGraph) equal(o *RoadGraph) bool {
	if g == o {
		return true
	}
	if g == nil || o == nil {
		return false
	}
	return slices.Equal(g.Locations(), o.Locations()) && slices.Equal(g.edges, o.edges)
}
