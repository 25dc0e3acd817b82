// Package temporal schedules sequential plans onto a timeline and replays
// temporal plans with checkpoints.
package temporal

import (
	"errors"
	"fmt"
	"slices"
	"transport-planning-service/internal/domain"
)

var (
	ErrInvalidPlan = errors.New("invalid temporal plan")
	ErrNoStation   = errors.New("no petrol station to refuel at")
)

// Mutex reports whether two actions may not overlap in time: they use the
// same vehicle, or one picks up or drops a package the other also handles.
// A refuel may overlap a pick-up or drop of the same vehicle.
func Mutex(a, b domain.Action) bool {
	if a.Vehicle == b.Vehicle {
		return !(a.Kind == domain.Refuel && isLoading(b) || b.Kind == domain.Refuel && isLoading(a))
	}
	return isLoading(a) && isLoading(b) && a.Package == b.Package
}

func isLoading(a domain.Action) bool {
	return a.Kind == domain.PickUp || a.Kind == domain.Drop
}

// Schedule turns a sequence of actions into a temporal plan for d.
//
// Actions are rebuilt with d. Fuel domains get refuels inserted where a
// vehicle would otherwise run dry. Every action starts as soon as all
// earlier actions it is mutually exclusive with have ended; an action may
// start exactly when its predecessor ends. The result is validated by
// replaying it in full.
func Schedule(d *domain.Domain, p *domain.Problem, actions []domain.Action) (*domain.TemporalPlan, error) {
	rebuilt, err := refuelled(d, p, actions)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	order, preds := precedence(rebuilt)

	timed := make([]domain.TemporalAction, len(rebuilt))
	for _, j := range order {
		start := 0
		for _, i := range preds[j] {
			start = max(start, timed[i].End)
		}
		timed[j] = domain.TemporalAction{Action: rebuilt[j], Start: start, End: start + rebuilt[j].Duration}
	}

	plan := domain.NewTemporalPlan(timed)
	m := NewStateManager(p, plan)
	if err := m.GoToTime(plan.Makespan(), true); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return plan, nil
}

// InsertRefuels rebuilds a fuel-free action sequence with the fuel domain d
// and adds the refuels p needs. The result is checked by applying it to p.
func InsertRefuels(d *domain.Domain, p *domain.Problem, actions []domain.Action) (*domain.SequentialPlan, error) {
	out, err := refuelled(d, p, actions)
	if err != nil {
		return nil, err
	}

	cur := p
	for i, a := range out {
		next, ok := a.Apply(cur)
		if !ok {
			return nil, fmt.Errorf("insert refuels: step %d %s: %w", i, a, ErrInvalidPlan)
		}
		cur = next
	}
	return domain.NewSequentialPlan(out), nil
}

// Rebuild actions with d. In a fuel domain existing refuels are dropped and
// placed again.
func refuelled(d *domain.Domain, p *domain.Problem, actions []domain.Action) ([]domain.Action, error) {
	out := make([]domain.Action, 0, len(actions))
	for _, a := range actions {
		if d.Labels().Fuel && a.Kind == domain.Refuel {
			continue
		}
		r, err := d.Rebuild(a, p.Graph())
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if !d.Labels().Fuel {
		return out, nil
	}
	return insertRefuels(d, p, out)
}

// Build the mutex precedence DAG and return a topological order along with
// each node's predecessors. Edges always point forward in the sequence, so
// the graph is acyclic and every node ends up in the order.
func precedence(actions []domain.Action) ([]int, [][]int) {
	n := len(actions)
	preds := make([][]int, n)
	succs := make([][]int, n)
	for j := range n {
		for i := range j {
			if Mutex(actions[i], actions[j]) {
				preds[j] = append(preds[j], i)
				succs[i] = append(succs[i], j)
			}
		}
	}

	inDegree := make([]int, n)
	var queue []int
	for j := range n {
		inDegree[j] = len(preds[j])
		if inDegree[j] == 0 {
			queue = append(queue, j)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)

		var freed []int
		for _, j := range succs[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				freed = append(freed, j)
			}
		}
		slices.Sort(freed)
		queue = append(queue, freed...)
	}

	return order, preds
}

// Insert refuels so no vehicle drives with too little fuel. A refuel goes at
// the latest point since the vehicle last refuelled where it stood at a
// petrol station.
func insertRefuels(d *domain.Domain, p *domain.Problem, actions []domain.Action) ([]domain.Action, error) {
	type tank struct {
		fuel, max int
		station   int
		at        string
		consumed  int
	}
	tanks := make(map[string]*tank)
	for _, v := range p.Vehicles() {
		tanks[v.Name] = &tank{fuel: v.CurFuel, max: v.MaxFuel, station: -1}
	}

	isStation := func(name string) bool {
		l, ok := p.Graph().Location(name)
		return ok && l.PetrolStation
	}

	out := make([]domain.Action, 0, len(actions))
	for _, a := range actions {
		t, ok := tanks[a.Vehicle]
		if !ok {
			out = append(out, a)
			continue
		}

		if isStation(a.Location) {
			t.station, t.at, t.consumed = len(out), a.Location, 0
		}

		if a.Kind == domain.Drive {
			if t.fuel < a.FuelCost {
				if t.station < 0 {
					return nil, fmt.Errorf("insert refuels: %s: %w", a, ErrNoStation)
				}
				pos := t.station
				out = slices.Insert(out, pos, d.Refuel(a.Vehicle, t.at))
				for _, other := range tanks {
					if other != t && other.station >= pos {
						other.station++
					}
				}
				t.fuel = t.max - t.consumed
				t.station = -1
				if t.fuel < a.FuelCost {
					return nil, fmt.Errorf("insert refuels: %s: fuel capacity %d too small", a, t.max)
				}
			}
			t.fuel -= a.FuelCost
			t.consumed += a.FuelCost
		}

		out = append(out, a)
	}
	return out, nil
}

// Return a copy of the problem without fuel: no petrol stations, no road
// fuel costs and empty tanks.
func ToSequentialProblem(p *domain.Problem) *domain.Problem {
	g := domain.NewRoadGraph()
	for _, l := range p.Graph().Locations() {
		l.PetrolStation = false
		_ = g.AddLocation(l)
	}
	for _, e := range p.Graph().Edges() {
		e.Road.FuelCost = 0
		_ = g.AddRoad(e.From, e.To, e.Road)
	}

	out := p.WithGraph(g)
	for _, v := range p.Vehicles() {
		v.CurFuel, v.MaxFuel = 0, 0
		out = out.PutVehicle(v)
	}
	return out
}
