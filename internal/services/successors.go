package services

import (
	"slices"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/routing"
	"transport-planning-service/internal/state"
)

// Return the pruned set of actions worth trying from s.
//
// Generation order matters: a drop at a package's target short-circuits all
// other choices, then pick-ups, non-target drops and drives follow.
func generateActions(d *domain.Domain, s *state.State, m *routing.Matrix) []domain.Action {
	if hasDriveCycle(s) {
		return nil
	}

	p := s.Problem()
	vehicles := p.Vehicles()
	last, hasLast := s.LastAction()

	for _, v := range vehicles {
		if v.Location == "" {
			continue
		}
		for _, name := range v.Packages {
			if pkg, ok := p.Package(name); ok && pkg.Target == v.Location {
				return []domain.Action{d.Drop(v.Name, v.Location, name)}
			}
		}
	}

	// After a drive only the vehicle that moved may load or unload.
	active := ""
	if hasLast && last.Kind == domain.Drive {
		active = last.Vehicle
	}

	var out []domain.Action
	packages := p.Packages()

	for _, v := range vehicles {
		if v.Location == "" || (active != "" && v.Name != active) {
			continue
		}
		for _, pkg := range packages {
			if pkg.Location != v.Location || pkg.Delivered() {
				continue
			}
			if d.Labels().Capacity && pkg.Size > v.CurCapacity {
				continue
			}
			if droppedHereSinceLastPickUp(s, v.Name, pkg.Name, v.Location) {
				continue
			}
			out = append(out, d.PickUp(v.Name, v.Location, pkg.Name))
		}
	}

	// Unloading away from the target never opens a plan or follows a pick-up.
	if hasLast && last.Kind != domain.PickUp {
		for _, v := range vehicles {
			if v.Location == "" || (active != "" && v.Name != active) {
				continue
			}
			for _, name := range v.Packages {
				if pickedUpHere(s, v.Name, name, v.Location) {
					continue
				}
				out = append(out, d.Drop(v.Name, v.Location, name))
			}
		}
	}

	for _, v := range vehicles {
		if v.Location == "" {
			continue
		}
		if hasLast && last.Kind != domain.Drop && v.Name != last.Vehicle {
			continue
		}
		for _, e := range p.Graph().OutRoads(v.Location) {
			if shorterPathExists(s, m, v.Name, e) {
				continue
			}
			out = append(out, d.Drive(v.Name, e))
		}
	}

	return out
}

// Reports whether the trailing run of drives visits a location twice.
func hasDriveCycle(s *state.State) bool {
	var visited []string
	vehicle := ""
	for a := range s.History() {
		if a.Kind != domain.Drive || (vehicle != "" && a.Vehicle != vehicle) {
			break
		}
		if vehicle == "" {
			vehicle = a.Vehicle
			visited = append(visited, a.To)
		}
		if slices.Contains(visited, a.Location) {
			return true
		}
		visited = append(visited, a.Location)
	}
	return false
}

// Reports whether driving e would extend the vehicle's current run of drives
// beyond the shortest distance from where the run started.
func shorterPathExists(s *state.State, m *routing.Matrix, vehicle string, e domain.RoadEdge) bool {
	source := e.From
	length := e.Road.Length
	for a := range s.History() {
		if a.Vehicle != vehicle {
			continue
		}
		if a.Kind != domain.Drive {
			break
		}
		source = a.Location
		length += a.Road.Length
	}
	if source == e.From {
		return false
	}
	return m.Distance(source, e.To) < length
}

// Reports whether vehicle dropped pkg at location and has not picked
// anything up since.
func droppedHereSinceLastPickUp(s *state.State, vehicle, pkg, location string) bool {
	for a := range s.History() {
		if a.Vehicle != vehicle {
			continue
		}
		switch a.Kind {
		case domain.PickUp:
			return false
		case domain.Drop:
			if a.Package == pkg && a.Location == location {
				return true
			}
		}
	}
	return false
}

func pickedUpHere(s *state.State, vehicle, pkg, location string) bool {
	for a := range s.History() {
		if a.Kind == domain.PickUp && a.Vehicle == vehicle && a.Package == pkg && a.Location == location {
			return true
		}
	}
	return false
}
