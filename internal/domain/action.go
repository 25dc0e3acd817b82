package domain

import (
	"fmt"
)

type ActionKind int

const (
	Drive ActionKind = iota
	PickUp
	Drop
	Refuel
)

func (k ActionKind) String() string {
	switch k {
	case Drive:
		return "drive"
	case PickUp:
		return "pickup"
	case Drop:
		return "drop"
	case Refuel:
		return "refuel"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Return the kind for a name produced by String.
func ParseActionKind(s string) (ActionKind, error) {
	for k := Drive; k <= Refuel; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("parse action kind: unknown kind %q", s)
}

// A single planning step.
//
// Location is where the action happens (the source of a drive). To and Road
// are set for drives only; Package for pick-ups and drops. Actions are built
// by a Domain, which decides the predicate lists, cost and duration.
type Action struct {
	Kind     ActionKind
	Vehicle  string
	Location string
	To       string
	Road     Road
	Package  string
	FuelCost int
	Cost     int
	Duration int

	Preconditions []Predicate
	Effects       []Predicate
}

func (a Action) String() string {
	switch a.Kind {
	case Drive:
		return fmt.Sprintf("drive(%s, %s, %s, %s)", a.Vehicle, a.Location, a.To, a.Road.Name)
	case PickUp, Drop:
		return fmt.Sprintf("%s(%s, %s, %s)", a.Kind, a.Vehicle, a.Location, a.Package)
	default:
		return fmt.Sprintf("%s(%s, %s)", a.Kind, a.Vehicle, a.Location)
	}
}

// Same reports whether two actions do the same thing, ignoring the domain
// they were built with.
func (a Action) Same(o Action) bool {
	return a.Kind == o.Kind &&
		a.Vehicle == o.Vehicle &&
		a.Location == o.Location &&
		a.To == o.To &&
		a.Road.Name == o.Road.Name &&
		a.Package == o.Package
}

func (a Action) Applicable(p *Problem) bool {
	_, failed := firstFailing(a.Preconditions, p, a)
	return !failed
}

func (a Action) Achieved(p *Problem) bool {
	_, failed := firstFailing(a.Effects, p, a)
	return !failed
}

// Return an error naming the first precondition that does not hold.
func (a Action) CheckPreconditions(p *Problem) error {
	if name, failed := firstFailing(a.Preconditions, p, a); failed {
		return fmt.Errorf("%s: precondition %s does not hold", a, name)
	}
	return nil
}

// Return an error naming the first effect that does not hold.
func (a Action) CheckEffects(p *Problem) error {
	if name, failed := firstFailing(a.Effects, p, a); failed {
		return fmt.Errorf("%s: effect %s does not hold", a, name)
	}
	return nil
}

// Apply the action as a single sequential step: check preconditions, apply
// the start and end changes, then check effects.
func (a Action) Apply(p *Problem) (*Problem, bool) {
	if !a.Applicable(p) {
		return nil, false
	}
	next := a.Finish(a.Start(p))
	if !a.Achieved(next) {
		return nil, false
	}
	return next, true
}

// Start applies the changes that happen when the action begins.
// Preconditions are not checked.
func (a Action) Start(p *Problem) *Problem {
	v, ok := p.vehicles[a.Vehicle]
	if !ok {
		return p
	}
	c := p.clone()

	switch a.Kind {
	case Drive:
		v.Location = ""
		v.Road = a.Road.Name
		v.CurFuel -= a.FuelCost
	case PickUp:
		v.Loading = true
		if pkg, ok := c.packages[a.Package]; ok {
			pkg.Location = ""
			c.packages[a.Package] = pkg
		}
	case Drop:
		v.Loading = true
		if pkg, ok := c.packages[a.Package]; ok && v.Carries(a.Package) {
			v = v.unload(a.Package, pkg.Size)
		}
	case Refuel:
	}

	c.vehicles[a.Vehicle] = v
	return c
}

// Finish applies the changes that happen when the action completes.
func (a Action) Finish(p *Problem) *Problem {
	v, ok := p.vehicles[a.Vehicle]
	if !ok {
		return p
	}
	c := p.clone()

	switch a.Kind {
	case Drive:
		v.Location = a.To
		v.Road = ""
	case PickUp:
		v.Loading = false
		if pkg, ok := c.packages[a.Package]; ok && !v.Carries(a.Package) {
			v = v.load(a.Package, pkg.Size)
		}
	case Drop:
		v.Loading = false
		if pkg, ok := c.packages[a.Package]; ok {
			pkg.Location = a.Location
			c.packages[a.Package] = pkg
		}
	case Refuel:
		v.CurFuel = v.MaxFuel
	}

	c.vehicles[a.Vehicle] = v
	return c
}
