package domain

import "fmt"

// Features a domain models.
type Labels struct {
	Capacity bool
	Fuel     bool
	Temporal bool
}

// Options describe a planning domain. Drive cost and duration always equal
// the road length.
type Options struct {
	Name   string
	Labels Labels

	PickUpCost     int
	PickUpDuration int
	DropCost       int
	DropDuration   int
	RefuelCost     int
	RefuelDuration int
}

// Domain builds actions with the predicates, costs and durations of one
// planning variant.
type Domain struct {
	opts Options

	drivePre, driveEff   []Predicate
	pickUpPre, pickUpEff []Predicate
	dropPre, dropEff     []Predicate
	refuelPre, refuelEff []Predicate
}

func New(opts Options) *Domain {
	d := &Domain{opts: opts}

	d.drivePre = []Predicate{VehicleAtLocation}
	d.driveEff = []Predicate{VehicleAtDestination}
	if opts.Labels.Fuel {
		d.drivePre = append(d.drivePre, HasFuelForDrive)
		d.driveEff = append(d.driveEff, FuelWithinBounds)
	}

	d.pickUpPre = []Predicate{VehicleAtLocation, PackageAtLocation, VehicleReady}
	d.pickUpEff = []Predicate{PackageInVehicle, VehicleReady}
	if opts.Labels.Capacity {
		d.pickUpPre = append(d.pickUpPre, HasCapacityForPackage)
		d.pickUpEff = append(d.pickUpEff, CapacityWithinBounds)
	}

	d.dropPre = []Predicate{VehicleAtLocation, PackageInVehicle, VehicleReady}
	d.dropEff = []Predicate{PackageAtLocation, Not(PackageInVehicle), VehicleReady}
	if opts.Labels.Capacity {
		d.dropEff = append(d.dropEff, CapacityWithinBounds)
	}

	d.refuelPre = []Predicate{VehicleAtLocation, PetrolStationAtLocation}
	d.refuelEff = []Predicate{TankFull}

	return d
}

// Return the sequential domain: capacities, no fuel, and only drives carry
// cost.
func NewSequentialDomain() *Domain {
	return New(Options{
		Name:   "sequential",
		Labels: Labels{Capacity: true},
	})
}

// Return the temporal domain used for scheduling and replay.
func NewTemporalDomain(fuel bool) *Domain {
	name := "temporal"
	if fuel {
		name = "temporal-fuel"
	}
	return New(Options{
		Name:           name,
		Labels:         Labels{Capacity: true, Fuel: fuel, Temporal: true},
		PickUpCost:     1,
		PickUpDuration: 1,
		DropCost:       1,
		DropDuration:   1,
		RefuelCost:     10,
		RefuelDuration: 10,
	})
}

// Return the same domain with fuel switched off.
func (d *Domain) WithoutFuel() *Domain {
	opts := d.opts
	opts.Labels.Fuel = false
	return New(opts)
}

func (d *Domain) Name() string     { return d.opts.Name }
func (d *Domain) Labels() Labels   { return d.opts.Labels }
func (d *Domain) Options() Options { return d.opts }

func (d *Domain) Drive(vehicle string, e RoadEdge) Action {
	a := Action{
		Kind:          Drive,
		Vehicle:       vehicle,
		Location:      e.From,
		To:            e.To,
		Road:          e.Road,
		Cost:          e.Road.Length,
		Duration:      e.Road.Length,
		Preconditions: d.drivePre,
		Effects:       d.driveEff,
	}
	if d.opts.Labels.Fuel {
		a.FuelCost = e.Road.FuelCost
	}
	return a
}

func (d *Domain) PickUp(vehicle, location, pkg string) Action {
	return Action{
		Kind:          PickUp,
		Vehicle:       vehicle,
		Location:      location,
		Package:       pkg,
		Cost:          d.opts.PickUpCost,
		Duration:      d.opts.PickUpDuration,
		Preconditions: d.pickUpPre,
		Effects:       d.pickUpEff,
	}
}

func (d *Domain) Drop(vehicle, location, pkg string) Action {
	return Action{
		Kind:          Drop,
		Vehicle:       vehicle,
		Location:      location,
		Package:       pkg,
		Cost:          d.opts.DropCost,
		Duration:      d.opts.DropDuration,
		Preconditions: d.dropPre,
		Effects:       d.dropEff,
	}
}

func (d *Domain) Refuel(vehicle, location string) Action {
	return Action{
		Kind:          Refuel,
		Vehicle:       vehicle,
		Location:      location,
		Cost:          d.opts.RefuelCost,
		Duration:      d.opts.RefuelDuration,
		Preconditions: d.refuelPre,
		Effects:       d.refuelEff,
	}
}

// Rebuild an action built by another domain. Drives resolve their road by
// name in g so fuel costs come from the target network.
func (d *Domain) Rebuild(a Action, g *RoadGraph) (Action, error) {
	switch a.Kind {
	case Drive:
		e, ok := g.Road(a.Road.Name)
		if !ok {
			return Action{}, fmt.Errorf("rebuild %s: road %q: %w", a, a.Road.Name, ErrUnknownRoad)
		}
		return d.Drive(a.Vehicle, e), nil
	case PickUp:
		return d.PickUp(a.Vehicle, a.Location, a.Package), nil
	case Drop:
		return d.Drop(a.Vehicle, a.Location, a.Package), nil
	case Refuel:
		return d.Refuel(a.Vehicle, a.Location), nil
	default:
		return Action{}, fmt.Errorf("rebuild %s: unsupported kind", a)
	}
}
