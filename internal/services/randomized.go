package services

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/routing"
	"transport-planning-service/internal/state"
)

// Anytime planner built from randomized rollouts.
//
// Each rollout starts from the initial problem and repeatedly either sends a
// vehicle to a petrol station or delivers a random unfinished package along
// a shortest path, handling other packages met on the way. Rollouts that can
// no longer beat the best plan are abandoned. The planner never stops on its
// own; it returns the best plan once ctx is done.
type Randomized struct {
	// Probability of choosing a uniformly random vehicle instead of a
	// nearby one.
	Exploration float64
	// Relative temperature of the distance-biased choices.
	Temperature float64

	// Probability of a refuel excursion starts at RefuelMin and is
	// multiplied by RefuelStep every RefuelEvery rollouts without
	// improvement, up to RefuelMax.
	RefuelMin   float64
	RefuelMax   float64
	RefuelStep  float64
	RefuelEvery int

	Seed uint64

	// Score ranks complete and partial plans; defaults to total cost.
	Score domain.ScoreFunction
	// Transform is applied to a sequential plan before scoring, for
	// example to schedule it.
	Transform func(*domain.SequentialPlan) (domain.Plan, error)
	// OnImprovement is called with every new best plan.
	OnImprovement func(plan domain.Plan, score float64)

	Logger Logger
}

func NewRandomized() *Randomized {
	return &Randomized{
		Exploration: 0.2,
		Temperature: 0.05,
		RefuelMin:   0.000003,
		RefuelMax:   0.5,
		RefuelStep:  2,
		RefuelEvery: 1000,
		Seed:        2017,
	}
}

func (r *Randomized) Name() string { return "randomized" }

func (r *Randomized) Plan(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	logger := loggerOrDefault(r.Logger)
	start := time.Now()

	run := &rollouts{
		cfg:     r,
		domain:  d,
		problem: p,
		matrix:  routing.NewMatrix(p.Graph()),
		rng:     rand.New(rand.NewPCG(r.Seed, r.Seed^0x5deece66d)),
		score:   r.Score,
	}
	if run.score == nil {
		run.score = domain.ScoreTotalCost
	}

	var best domain.Plan
	bestScore := math.Inf(1)
	sinceBest := 0
	total := 0

	for ctx.Err() == nil {
		plan, score, ok := run.rollout(ctx, bestScore, r.refuelProbability(sinceBest))
		total++
		sinceBest++
		if !ok || score >= bestScore {
			continue
		}

		best, bestScore = plan, score
		sinceBest = 0
		logger.Printf("planner=randomized improved score=%g actions=%d rollouts=%d dur=%dms",
			score, len(plan.Actions()), total, sinceMillis(start))
		if r.OnImprovement != nil {
			r.OnImprovement(plan, score)
		}
	}

	logger.Printf("planner=randomized stopped rollouts=%d found=%t dur=%dms", total, best != nil, sinceMillis(start))
	if best == nil {
		return nil, false
	}
	return best, true
}

func (r *Randomized) refuelProbability(sinceBest int) float64 {
	every := r.RefuelEvery
	if every <= 0 {
		every = 1
	}
	prob := r.RefuelMin * math.Pow(r.RefuelStep, float64(sinceBest/every))
	return math.Min(prob, r.RefuelMax)
}

// Per-run state shared by all rollouts of one Plan call.
type rollouts struct {
	cfg     *Randomized
	domain  *domain.Domain
	problem *domain.Problem
	matrix  *routing.Matrix
	rng     *rand.Rand
	score   domain.ScoreFunction
}

// Run a single rollout. ok is false if it was abandoned.
func (ro *rollouts) rollout(ctx context.Context, bound, refuelProb float64) (domain.Plan, float64, bool) {
	s := state.New(ro.problem)
	maxSteps := 4*(len(ro.problem.Packages())+len(ro.problem.Vehicles())) + 8

	for step := 0; !s.IsGoal(); step++ {
		if step > maxSteps {
			return nil, 0, false
		}

		var actions []domain.Action
		if ro.domain.Labels().Fuel && ro.rng.Float64() < refuelProb {
			actions = ro.refuelExcursion(s)
		}
		if len(actions) == 0 {
			actions = ro.progress(s)
		}
		if len(actions) == 0 {
			return nil, 0, false
		}

		for _, a := range actions {
			if ctx.Err() != nil {
				return nil, 0, false
			}
			next, ok := s.Apply(a)
			if !ok {
				return nil, 0, false
			}
			s = next
		}

		if _, score, ok := ro.evaluate(s); !ok || score >= bound {
			return nil, 0, false
		}
	}

	return ro.evaluate(s)
}

func (ro *rollouts) evaluate(s *state.State) (domain.Plan, float64, bool) {
	var plan domain.Plan = s.Plan()
	if ro.cfg.Transform != nil {
		t, err := ro.cfg.Transform(s.Plan())
		if err != nil {
			return nil, 0, false
		}
		plan = t
	}
	return plan, ro.score(ro.domain, ro.problem, plan), true
}

// Drive a vehicle to a distance-biased petrol station and refuel there.
func (ro *rollouts) refuelExcursion(s *state.State) []domain.Action {
	p := s.Problem()

	var v domain.Vehicle
	if last, ok := s.LastAction(); ok {
		v, _ = p.Vehicle(last.Vehicle)
	} else {
		vs := p.Vehicles()
		if len(vs) == 0 {
			return nil
		}
		v = vs[ro.rng.IntN(len(vs))]
	}
	if v.Location == "" {
		return nil
	}

	stations := p.Graph().PetrolStations()
	names := make([]string, len(stations))
	dists := make([]int, len(stations))
	for i, l := range stations {
		names[i] = l.Name
		dists[i] = ro.matrix.Distance(v.Location, l.Name)
	}
	i := sampleByDistance(ro.rng, names, dists, ro.cfg.Temperature)
	if i < 0 {
		return nil
	}

	path, ok := ro.matrix.Path(v.Location, names[i])
	if !ok {
		return nil
	}
	actions := make([]domain.Action, 0, len(path.Roads)+1)
	for _, e := range path.Roads {
		actions = append(actions, ro.domain.Drive(v.Name, e))
	}
	return append(actions, ro.domain.Refuel(v.Name, names[i]))
}

// Deliver one random unfinished package, or send vehicles to their targets
// when every package is delivered.
func (ro *rollouts) progress(s *state.State) []domain.Action {
	p := s.Problem()

	var unfinished []domain.Package
	for _, pkg := range p.Packages() {
		if !pkg.Delivered() {
			unfinished = append(unfinished, pkg)
		}
	}
	if len(unfinished) == 0 {
		return ro.driveToTargets(p)
	}

	chosen := unfinished[ro.rng.IntN(len(unfinished))]

	if chosen.Loaded() {
		for _, v := range p.Vehicles() {
			if !v.Carries(chosen.Name) || v.Location == "" {
				continue
			}
			path, ok := ro.matrix.Path(v.Location, chosen.Target)
			if !ok {
				return nil
			}
			return ro.followPath(p, v, chosen, 0, path)
		}
		return nil
	}

	v, ok := ro.chooseVehicle(p, chosen)
	if !ok {
		return nil
	}
	toPackage, ok := ro.matrix.Path(v.Location, chosen.Location)
	if !ok {
		return nil
	}
	toTarget, ok := ro.matrix.Path(chosen.Location, chosen.Target)
	if !ok {
		return nil
	}
	path := routing.Path{
		Roads:    append(append([]domain.RoadEdge{}, toPackage.Roads...), toTarget.Roads...),
		Distance: toPackage.Distance + toTarget.Distance,
	}
	return ro.followPath(p, v, chosen, len(toPackage.Roads), path)
}

// Pick a vehicle that can carry pkg and reach it: uniformly at random with
// probability Exploration, otherwise biased towards nearby vehicles.
func (ro *rollouts) chooseVehicle(p *domain.Problem, pkg domain.Package) (domain.Vehicle, bool) {
	if !ro.matrix.Reachable(pkg.Location, pkg.Target) {
		return domain.Vehicle{}, false
	}

	var candidates []domain.Vehicle
	var names []string
	var dists []int
	for _, v := range p.Vehicles() {
		if v.Location == "" || v.Loading {
			continue
		}
		if ro.domain.Labels().Capacity && v.CurCapacity < pkg.Size {
			continue
		}
		d := ro.matrix.Distance(v.Location, pkg.Location)
		if d == routing.Unreachable {
			continue
		}
		candidates = append(candidates, v)
		names = append(names, v.Name)
		dists = append(dists, d)
	}
	if len(candidates) == 0 {
		return domain.Vehicle{}, false
	}

	if ro.rng.Float64() < ro.cfg.Exploration {
		return candidates[ro.rng.IntN(len(candidates))], true
	}
	i := sampleByDistance(ro.rng, names, dists, ro.cfg.Temperature)
	if i < 0 {
		return domain.Vehicle{}, false
	}
	return candidates[i], true
}

// Turn a route into actions: at every stop drop, then pick up, refuel when
// the next road needs more fuel than is left and a station is at hand, then
// drive on.
func (ro *rollouts) followPath(p *domain.Problem, v domain.Vehicle, chosen domain.Package, chosenAt int, path routing.Path) []domain.Action {
	d := ro.domain
	locs := path.Locations()
	if len(locs) == 0 {
		locs = []string{v.Location}
	}

	stops, ok := assignAlongPath(p, ro.matrix, v, chosen, chosenAt, locs, d.Labels().Capacity)
	if !ok {
		return nil
	}

	fuel := v.CurFuel
	var actions []domain.Action
	for i, loc := range locs {
		for _, name := range stops.drops[i] {
			actions = append(actions, d.Drop(v.Name, loc, name))
		}
		for _, name := range stops.pickUps[i] {
			actions = append(actions, d.PickUp(v.Name, loc, name))
		}
		if i == len(path.Roads) {
			break
		}

		drive := d.Drive(v.Name, path.Roads[i])
		if d.Labels().Fuel && fuel < drive.FuelCost {
			if l, ok := p.Graph().Location(loc); ok && l.PetrolStation {
				actions = append(actions, d.Refuel(v.Name, loc))
				fuel = v.MaxFuel
			}
		}
		fuel -= drive.FuelCost
		actions = append(actions, drive)
	}
	return actions
}

func (ro *rollouts) driveToTargets(p *domain.Problem) []domain.Action {
	var actions []domain.Action
	for _, v := range p.Vehicles() {
		if v.AtTarget() {
			continue
		}
		path, ok := ro.matrix.Path(v.Location, v.Target)
		if !ok {
			return nil
		}
		for _, e := range path.Roads {
			actions = append(actions, ro.domain.Drive(v.Name, e))
		}
	}
	return actions
}
