package domain

import (
	"maps"
	"slices"
)

// A named planning problem: vehicles and packages over a road network.
//
// Problems are immutable. Every mutation returns a new Problem; the receiver
// is never changed. Value records are copied, the road graph is shared.
type Problem struct {
	name     string
	graph    *RoadGraph
	vehicles map[string]Vehicle
	packages map[string]Package
	vOrder   []string
	pOrder   []string
}

func NewProblem(name string, graph *RoadGraph, vehicles []Vehicle, packages []Package) *Problem {
	p := &Problem{
		name:     name,
		graph:    graph,
		vehicles: make(map[string]Vehicle, len(vehicles)),
		packages: make(map[string]Package, len(packages)),
	}
	if p.graph == nil {
		p.graph = NewRoadGraph()
	}
	for _, v := range vehicles {
		v.Packages = slices.Clone(v.Packages)
		p.vehicles[v.Name] = v
	}
	for _, pkg := range packages {
		p.packages[pkg.Name] = pkg
	}
	p.vOrder = slices.Sorted(maps.Keys(p.vehicles))
	p.pOrder = slices.Sorted(maps.Keys(p.packages))
	return p
}

func (p *Problem) Name() string      { return p.name }
func (p *Problem) Graph() *RoadGraph { return p.graph }

func (p *Problem) Vehicle(name string) (Vehicle, bool) {
	v, ok := p.vehicles[name]
	return v, ok
}

func (p *Problem) Package(name string) (Package, bool) {
	pkg, ok := p.packages[name]
	return pkg, ok
}

// Return all vehicles ordered by name.
func (p *Problem) Vehicles() []Vehicle {
	out := make([]Vehicle, 0, len(p.vOrder))
	for _, name := range p.vOrder {
		out = append(out, p.vehicles[name])
	}
	return out
}

// Return all packages ordered by name.
func (p *Problem) Packages() []Package {
	out := make([]Package, 0, len(p.pOrder))
	for _, name := range p.pOrder {
		out = append(out, p.packages[name])
	}
	return out
}

func (p *Problem) Rename(name string) *Problem {
	c := p.clone()
	c.name = name
	return c
}

// Return a copy of the problem placed on another road network.
func (p *Problem) WithGraph(g *RoadGraph) *Problem {
	c := p.clone()
	c.graph = g
	return c
}

// Return a copy with the location added or replaced. The graph is cloned.
func (p *Problem) PutLocation(l Location) *Problem {
	g := p.graph.Clone()
	if _, ok := g.locations[l.Name]; !ok {
		g.order = append(g.order, l.Name)
	}
	g.locations[l.Name] = l
	return p.WithGraph(g)
}

func (p *Problem) PutVehicle(v Vehicle) *Problem {
	c := p.clone()
	v.Packages = slices.Clone(v.Packages)
	if _, ok := c.vehicles[v.Name]; !ok {
		c.vOrder = insertSorted(c.vOrder, v.Name)
	}
	c.vehicles[v.Name] = v
	return c
}

func (p *Problem) RemoveVehicle(name string) *Problem {
	if _, ok := p.vehicles[name]; !ok {
		return p
	}
	c := p.clone()
	delete(c.vehicles, name)
	c.vOrder = slices.DeleteFunc(slices.Clone(c.vOrder), func(s string) bool { return s == name })
	return c
}

func (p *Problem) PutPackage(pkg Package) *Problem {
	c := p.clone()
	if _, ok := c.packages[pkg.Name]; !ok {
		c.pOrder = insertSorted(c.pOrder, pkg.Name)
	}
	c.packages[pkg.Name] = pkg
	return c
}

func (p *Problem) RemovePackage(name string) *Problem {
	if _, ok := p.packages[name]; !ok {
		return p
	}
	c := p.clone()
	delete(c.packages, name)
	c.pOrder = slices.DeleteFunc(slices.Clone(c.pOrder), func(s string) bool { return s == name })
	return c
}

// Equal reports full value equality, including the road network.
func (p *Problem) Equal(o *Problem) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil {
		return false
	}
	return p.name == o.name &&
		p.graph.equal(o.graph) &&
		maps.EqualFunc(p.vehicles, o.vehicles, Vehicle.equal) &&
		maps.Equal(p.packages, o.packages)
}

// Shallow copy with fresh maps. Order slices are shared and must be cloned
// before they are modified.
func (p *Problem) clone() *Problem {
	return &Problem{
		name:     p.name,
		graph:    p.graph,
		vehicles: maps.Clone(p.vehicles),
		packages: maps.Clone(p.packages),
		vOrder:   p.vOrder,
		pOrder:   p.pOrder,
	}
}

func insertSorted(s []string, name string) []string {
	i, _ := slices.BinarySearch(s, name)
	return slices.Insert(slices.Clone(s), i, name)
}
