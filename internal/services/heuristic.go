package services

import (
	"transport-planning-service/internal/routing"
	"transport-planning-service/internal/state"
)

// Estimates the remaining cost from a state. Returning routing.Unreachable
// marks the state as a dead end.
type Heuristic func(m *routing.Matrix, s *state.State) int

// Sum over unfinished packages of the shortest distance from where the
// package is (or the vehicle holding it) to its target.
func SumOfDistances(m *routing.Matrix, s *state.State) int {
	total := 0
	for _, d := range packageDistances(s, m) {
		if d == routing.Unreachable {
			return routing.Unreachable
		}
		total += d
	}
	return total
}

// Largest remaining distance of any package or vehicle target. Never
// overestimates with non-negative road lengths.
func MaxDistance(m *routing.Matrix, s *state.State) int {
	best := 0
	for _, d := range packageDistances(s, m) {
		best = max(best, d)
	}
	for _, v := range s.Problem().Vehicles() {
		if v.Target == "" || v.Location == "" {
			continue
		}
		best = max(best, m.Distance(v.Location, v.Target))
	}
	return best
}

func packageDistances(s *state.State, m *routing.Matrix) []int {
	p := s.Problem()

	holder := make(map[string]string)
	for _, v := range p.Vehicles() {
		for _, name := range v.Packages {
			holder[name] = v.Location
		}
	}

	var out []int
	for _, pkg := range p.Packages() {
		if pkg.Delivered() {
			continue
		}
		from := pkg.Location
		if pkg.Loaded() {
			from = holder[pkg.Name]
		}
		if from == "" {
			continue
		}
		out = append(out, m.Distance(from, pkg.Target))
	}
	return out
}

// Per-run heuristic cache keyed by search equivalence.
type heuristicMemo struct {
	m     *routing.Matrix
	h     Heuristic
	cache *state.Map[int]
}

func newHeuristicMemo(m *routing.Matrix, h Heuristic) *heuristicMemo {
	if h == nil {
		h = SumOfDistances
	}
	return &heuristicMemo{m: m, h: h, cache: state.NewMap[int]()}
}

func (hm *heuristicMemo) estimate(s *state.State) int {
	if v, ok := hm.cache.Get(s); ok {
		return v
	}
	v := hm.h(hm.m, s)
	hm.cache.Put(s, v)
	return v
}
