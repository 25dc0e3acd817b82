package services

import (
	"math"
	"slices"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/routing"
)

// Per-stop drops and pick-ups for a vehicle following a route.
type routeStops struct {
	drops   [][]string
	pickUps [][]string
}

type assignment struct {
	pkg      domain.Package
	pickUpAt int
	dropAt   int
}

// assignAlongPath decides which packages a vehicle handles while it drives
// through locs.
//
// Packages already loaded are dropped at their target if the route passes
// it. The chosen package is picked up at chosenAt and delivered. Remaining
// capacity goes first to packages whose pick-up and target both lie on the
// route, then to packages that can be left closer to their target than they
// are now. A package is only taken when every leg it rides has room for it.
func assignAlongPath(
	p *domain.Problem,
	m *routing.Matrix,
	v domain.Vehicle,
	chosen domain.Package,
	chosenAt int,
	locs []string,
	capacity bool,
) (routeStops, bool) {
	n := len(locs)
	stops := routeStops{drops: make([][]string, n), pickUps: make([][]string, n)}

	base := v.CurCapacity
	if !capacity {
		base = math.MaxInt / 2
	}

	freed := make([]int, n)
	for _, name := range v.Packages {
		pkg, ok := p.Package(name)
		if !ok {
			continue
		}
		if j := indexFrom(locs, pkg.Target, 0); j >= 0 {
			stops.drops[j] = append(stops.drops[j], name)
			freed[j] += pkg.Size
		}
	}

	free := make([]int, n)
	running := base
	for i := range n {
		running += freed[i]
		free[i] = running
	}

	reserve := func(from, to, size int) bool {
		for k := from; k < to; k++ {
			if free[k] < size {
				return false
			}
		}
		for k := from; k < to; k++ {
			free[k] -= size
		}
		return true
	}

	if !chosen.Loaded() {
		dropAt := indexFrom(locs, chosen.Target, chosenAt+1)
		if dropAt < 0 || !reserve(chosenAt, dropAt, chosen.Size) {
			return routeStops{}, false
		}
		stops.pickUps[chosenAt] = append(stops.pickUps[chosenAt], chosen.Name)
		stops.drops[dropAt] = append(stops.drops[dropAt], chosen.Name)
	}

	var onPath, aroundPath []assignment
	for _, pkg := range p.Packages() {
		if pkg.Name == chosen.Name || pkg.Loaded() || pkg.Delivered() {
			continue
		}
		i := indexFrom(locs, pkg.Location, 0)
		if i < 0 {
			continue
		}
		if j := indexFrom(locs, pkg.Target, i+1); j >= 0 {
			onPath = append(onPath, assignment{pkg: pkg, pickUpAt: i, dropAt: j})
			continue
		}
		if j, ok := closerStop(m, locs, pkg, i); ok {
			aroundPath = append(aroundPath, assignment{pkg: pkg, pickUpAt: i, dropAt: j})
		}
	}

	byPickUp := func(a, b assignment) int { return a.pickUpAt - b.pickUpAt }
	slices.SortStableFunc(onPath, byPickUp)
	slices.SortStableFunc(aroundPath, byPickUp)

	for _, as := range append(onPath, aroundPath...) {
		if !reserve(as.pickUpAt, as.dropAt, as.pkg.Size) {
			continue
		}
		stops.pickUps[as.pickUpAt] = append(stops.pickUps[as.pickUpAt], as.pkg.Name)
		stops.drops[as.dropAt] = append(stops.drops[as.dropAt], as.pkg.Name)
	}

	return stops, true
}

// Return the stop after from that brings pkg strictly closer to its target.
func closerStop(m *routing.Matrix, locs []string, pkg domain.Package, from int) (int, bool) {
	best, bestDist := -1, m.Distance(pkg.Location, pkg.Target)
	for j := from + 1; j < len(locs); j++ {
		if d := m.Distance(locs[j], pkg.Target); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, best >= 0
}

func indexFrom(locs []string, name string, from int) int {
	for i := from; i < len(locs); i++ {
		if locs[i] == name {
			return i
		}
	}
	return -1
}
