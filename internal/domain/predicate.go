package domain

// A pure boolean check over a problem and the parameters of an action.
type Predicate interface {
	Name() string
	Holds(p *Problem, a Action) bool
}

type predicateFunc struct {
	name string
	fn   func(*Problem, Action) bool
}

func (f predicateFunc) Name() string                    { return f.name }
func (f predicateFunc) Holds(p *Problem, a Action) bool { return f.fn(p, a) }

func NewPredicate(name string, fn func(p *Problem, a Action) bool) Predicate {
	return predicateFunc{name: name, fn: fn}
}

// Negate a predicate.
func Not(pr Predicate) Predicate {
	return predicateFunc{
		name: "not(" + pr.Name() + ")",
		fn:   func(p *Problem, a Action) bool { return !pr.Holds(p, a) },
	}
}

// Wrap a predicate under a new name, keeping its semantics.
func Named(name string, pr Predicate) Predicate {
	return predicateFunc{name: name, fn: pr.Holds}
}

var (
	VehicleAtLocation = NewPredicate("vehicle-at-location", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.Location == a.Location
	})

	VehicleAtDestination = NewPredicate("vehicle-at-destination", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.Location == a.To
	})

	VehicleReady = NewPredicate("vehicle-ready", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && !v.Loading
	})

	PackageAtLocation = NewPredicate("package-at-location", func(p *Problem, a Action) bool {
		pkg, ok := p.Package(a.Package)
		return ok && pkg.Location == a.Location
	})

	PackageInVehicle = NewPredicate("package-in-vehicle", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.Carries(a.Package)
	})

	HasCapacityForPackage = NewPredicate("has-capacity-for-package", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		if !ok {
			return false
		}
		pkg, ok := p.Package(a.Package)
		return ok && pkg.Size <= v.CurCapacity
	})

	CapacityWithinBounds = NewPredicate("capacity-within-bounds", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.CurCapacity >= 0 && v.CurCapacity <= v.MaxCapacity
	})

	HasFuelForDrive = NewPredicate("has-fuel-for-drive", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.CurFuel >= a.FuelCost
	})

	FuelWithinBounds = NewPredicate("fuel-within-bounds", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.CurFuel >= 0 && v.CurFuel <= v.MaxFuel
	})

	PetrolStationAtLocation = NewPredicate("petrol-station-at-location", func(p *Problem, a Action) bool {
		l, ok := p.Graph().Location(a.Location)
		return ok && l.PetrolStation
	})

	TankFull = NewPredicate("tank-full", func(p *Problem, a Action) bool {
		v, ok := p.Vehicle(a.Vehicle)
		return ok && v.CurFuel == v.MaxFuel
	})
)

func firstFailing(preds []Predicate, p *Problem, a Action) (string, bool) {
	for _, pr := range preds {
		if !pr.Holds(p, a) {
			return pr.Name(), true
		}
	}
	return "", false
}
