// Package routing precomputes all-pairs shortest paths over a road network.
package routing

import (
	"math"
	"transport-planning-service/internal/domain"
)

// Distance reported for unreachable pairs.
const Unreachable = math.MaxInt

// A shortest path between two locations.
type Path struct {
	Roads    []domain.RoadEdge
	Distance int
}

// Return the locations visited by the path, including both ends.
func (p Path) Locations() []string {
	if len(p.Roads) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.Roads)+1)
	out = append(out, p.Roads[0].From)
	for _, r := range p.Roads {
		out = append(out, r.To)
	}
	return out
}

// Read-only all-pairs shortest path table by road length.
type Matrix struct {
	index map[string]int
	names []string
	dist  [][]int
	next  [][]int
	edge  [][]int
	edges []domain.RoadEdge
}

// Build the table with Floyd–Warshall over the shortest road between each
// pair of adjacent locations.
func NewMatrix(g *domain.RoadGraph) *Matrix {
	locs := g.Locations()
	n := len(locs)

	m := &Matrix{
		index: make(map[string]int, n),
		names: make([]string, n),
		dist:  make([][]int, n),
		next:  make([][]int, n),
		edge:  make([][]int, n),
		edges: g.Edges(),
	}
	for i, l := range locs {
		m.index[l.Name] = i
		m.names[i] = l.Name
		m.dist[i] = make([]int, n)
		m.next[i] = make([]int, n)
		m.edge[i] = make([]int, n)
		for j := range n {
			m.dist[i][j] = Unreachable
			m.next[i][j] = -1
			m.edge[i][j] = -1
		}
		m.dist[i][i] = 0
		m.next[i][i] = i
	}

	for k, e := range m.edges {
		i, j := m.index[e.From], m.index[e.To]
		if i == j {
			continue
		}
		if e.Road.Length < m.dist[i][j] {
			m.dist[i][j] = e.Road.Length
			m.next[i][j] = j
			m.edge[i][j] = k
		}
	}

	for k := range n {
		for i := range n {
			if m.dist[i][k] == Unreachable {
				continue
			}
			for j := range n {
				if m.dist[k][j] == Unreachable {
					continue
				}
				if d := m.dist[i][k] + m.dist[k][j]; d < m.dist[i][j] {
					m.dist[i][j] = d
					m.next[i][j] = m.next[i][k]
				}
			}
		}
	}

	return m
}

// Return the shortest distance, or Unreachable.
func (m *Matrix) Distance(from, to string) int {
	i, ok := m.index[from]
	if !ok {
		return Unreachable
	}
	j, ok := m.index[to]
	if !ok {
		return Unreachable
	}
	return m.dist[i][j]
}

func (m *Matrix) Reachable(from, to string) bool {
	return m.Distance(from, to) != Unreachable
}

// Return the shortest path. ok is false when to is unreachable from from.
func (m *Matrix) Path(from, to string) (Path, bool) {
	i, ok := m.index[from]
	if !ok {
		return Path{}, false
	}
	j, ok := m.index[to]
	if !ok || m.dist[i][j] == Unreachable {
		return Path{}, false
	}

	path := Path{Distance: m.dist[i][j]}
	for i != j {
		hop := m.next[i][j]
		path.Roads = append(path.Roads, m.edges[m.edge[i][hop]])
		i = hop
	}
	return path, true
}
