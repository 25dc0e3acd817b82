package services

import (
	"math"
	"math/rand/v2"
	"transport-planning-service/internal/routing"
)

// Pick the candidate with the smallest distance.
//
// Ties go to the lexicographically smallest name so the choice stays
// deterministic. Unreachable candidates are never chosen; -1 means none.
func nearest(names []string, dists []int) int {
	best := -1
	for i, d := range dists {
		if d == routing.Unreachable {
			continue
		}
		if best == -1 || d < dists[best] || (d == dists[best] && names[i] < names[best]) {
			best = i
		}
	}
	return best
}

// Sample a candidate index with probability decaying exponentially in its
// distance. Temperature is relative to the largest reachable distance; at
// temperature 0 this degrades to nearest. Returns -1 when nothing is
// reachable.
func sampleByDistance(rng *rand.Rand, names []string, dists []int, temperature float64) int {
	if temperature <= 0 {
		return nearest(names, dists)
	}

	scale := 1.0
	for _, d := range dists {
		if d != routing.Unreachable {
			scale = math.Max(scale, float64(d)+1)
		}
	}

	weights := make([]float64, len(dists))
	total := 0.0
	for i, d := range dists {
		if d == routing.Unreachable {
			continue
		}
		weights[i] = math.Exp(-float64(d) / (temperature * scale))
		total += weights[i]
	}
	if total == 0 {
		return nearest(names, dists)
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w == 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	return nearest(names, dists)
}
