// Package problemfile loads delivery problems from YAML or JSON fixtures.
package problemfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"transport-planning-service/internal/domain"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLocation = domain.ErrUnknownLocation
	ErrUnknownPackage  = errors.New("unknown package")
	ErrInvalidFixture  = errors.New("invalid problem fixture")
)

// File is the on-disk shape of a problem. JSON is valid YAML, so both
// formats decode through the same path. The API reuses it for request
// bodies.
type File struct {
	Name      string     `yaml:"name" json:"name"`
	Domain    DomainSpec `yaml:"domain" json:"domain"`
	Locations []Location `yaml:"locations" json:"locations"`
	Roads     []Road     `yaml:"roads" json:"roads"`
	Vehicles  []Vehicle  `yaml:"vehicles" json:"vehicles"`
	Packages  []Package  `yaml:"packages" json:"packages"`
}

// Capacity defaults to on.
type DomainSpec struct {
	Capacity *bool `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	Fuel     bool  `yaml:"fuel" json:"fuel"`
	Temporal bool  `yaml:"temporal" json:"temporal"`
}

type Location struct {
	Name          string  `yaml:"name" json:"name"`
	X             float64 `yaml:"x" json:"x"`
	Y             float64 `yaml:"y" json:"y"`
	PetrolStation bool    `yaml:"petrol_station" json:"petrol_station"`
}

// Length defaults to the rounded-up distance between the endpoints. TwoWay
// also adds the reverse road, named "<name>-back".
type Road struct {
	Name     string `yaml:"name" json:"name"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
	Length   *int   `yaml:"length,omitempty" json:"length,omitempty"`
	FuelCost int    `yaml:"fuel_cost" json:"fuel_cost"`
	TwoWay   bool   `yaml:"two_way" json:"two_way"`
}

// Packages lists packages loaded at the start; they must not name a
// location of their own.
type Vehicle struct {
	Name     string   `yaml:"name" json:"name"`
	Location string   `yaml:"location" json:"location"`
	Target   string   `yaml:"target,omitempty" json:"target,omitempty"`
	Capacity int      `yaml:"capacity" json:"capacity"`
	Fuel     int      `yaml:"fuel" json:"fuel"`
	MaxFuel  int      `yaml:"max_fuel,omitempty" json:"max_fuel,omitempty"`
	Packages []string `yaml:"packages,omitempty" json:"packages,omitempty"`
}

type Package struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Target   string `yaml:"target" json:"target"`
	Size     int    `yaml:"size" json:"size"`
}

// Read a fixture from path and build its problem and domain.
func Load(path string) (*domain.Problem, *domain.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load problem: open %q: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load problem %q: %w", path, err)
	}
	return file.Build()
}

func Decode(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode problem: %w", err)
	}
	return &file, nil
}

// Return the domain the fixture asks for.
func (f *File) BuildDomain() *domain.Domain {
	capacity := f.Domain.Capacity == nil || *f.Domain.Capacity
	switch {
	case f.Domain.Temporal:
		return domain.NewTemporalDomain(f.Domain.Fuel)
	case f.Domain.Fuel || !capacity:
		return domain.New(domain.Options{
			Name:   "sequential-custom",
			Labels: domain.Labels{Capacity: capacity, Fuel: f.Domain.Fuel},
		})
	default:
		return domain.NewSequentialDomain()
	}
}

// Build validates every reference in the fixture and returns the problem
// and its domain.
func (f *File) Build() (*domain.Problem, *domain.Domain, error) {
	g, err := f.buildGraph()
	if err != nil {
		return nil, nil, err
	}

	packages := make(map[string]Package, len(f.Packages))
	for _, p := range f.Packages {
		if p.Name == "" {
			return nil, nil, fmt.Errorf("build problem: package without name: %w", ErrInvalidFixture)
		}
		if _, dup := packages[p.Name]; dup {
			return nil, nil, fmt.Errorf("build problem: duplicate package %q: %w", p.Name, ErrInvalidFixture)
		}
		if err := requireLocation(g, p.Target, "package %q target", p.Name); err != nil {
			return nil, nil, err
		}
		if p.Location != "" {
			if err := requireLocation(g, p.Location, "package %q", p.Name); err != nil {
				return nil, nil, err
			}
		}
		packages[p.Name] = p
	}

	carriedBy := make(map[string]string)
	vehicles := make([]domain.Vehicle, 0, len(f.Vehicles))
	for _, v := range f.Vehicles {
		if v.Name == "" {
			return nil, nil, fmt.Errorf("build problem: vehicle without name: %w", ErrInvalidFixture)
		}
		if err := requireLocation(g, v.Location, "vehicle %q", v.Name); err != nil {
			return nil, nil, err
		}
		if v.Target != "" {
			if err := requireLocation(g, v.Target, "vehicle %q target", v.Name); err != nil {
				return nil, nil, err
			}
		}

		maxFuel := v.MaxFuel
		if maxFuel == 0 {
			maxFuel = v.Fuel
		}
		vehicle := domain.Vehicle{
			Name:        v.Name,
			Location:    v.Location,
			Target:      v.Target,
			CurCapacity: v.Capacity,
			MaxCapacity: v.Capacity,
			CurFuel:     v.Fuel,
			MaxFuel:     maxFuel,
		}

		for _, name := range v.Packages {
			p, ok := packages[name]
			if !ok {
				return nil, nil, fmt.Errorf("build problem: vehicle %q carries %q: %w", v.Name, name, ErrUnknownPackage)
			}
			if p.Location != "" {
				return nil, nil, fmt.Errorf("build problem: package %q is both at %q and in vehicle %q: %w", name, p.Location, v.Name, ErrInvalidFixture)
			}
			if other, dup := carriedBy[name]; dup {
				return nil, nil, fmt.Errorf("build problem: package %q in vehicles %q and %q: %w", name, other, v.Name, ErrInvalidFixture)
			}
			carriedBy[name] = v.Name
			vehicle.Packages = append(vehicle.Packages, name)
			vehicle.CurCapacity -= p.Size
		}
		if vehicle.CurCapacity < 0 {
			return nil, nil, fmt.Errorf("build problem: vehicle %q is over capacity: %w", v.Name, ErrInvalidFixture)
		}
		vehicles = append(vehicles, vehicle)
	}

	out := make([]domain.Package, 0, len(f.Packages))
	for _, p := range f.Packages {
		if p.Location == "" && carriedBy[p.Name] == "" {
			return nil, nil, fmt.Errorf("build problem: package %q has no location and no vehicle: %w", p.Name, ErrInvalidFixture)
		}
		out = append(out, domain.Package{Name: p.Name, Location: p.Location, Target: p.Target, Size: p.Size})
	}

	return domain.NewProblem(f.Name, g, vehicles, out), f.BuildDomain(), nil
}

func (f *File) buildGraph() (*domain.RoadGraph, error) {
	g := domain.NewRoadGraph()
	for _, l := range f.Locations {
		loc := domain.Location{
			Name:          l.Name,
			Coords:        domain.Coordinates{X: l.X, Y: l.Y},
			PetrolStation: l.PetrolStation,
		}
		if err := g.AddLocation(loc); err != nil {
			return nil, fmt.Errorf("build problem: location %q: %w", l.Name, err)
		}
	}

	for _, r := range f.Roads {
		from, ok := g.Location(r.From)
		if !ok {
			return nil, fmt.Errorf("build problem: road %q from %q: %w", r.Name, r.From, ErrUnknownLocation)
		}
		to, ok := g.Location(r.To)
		if !ok {
			return nil, fmt.Errorf("build problem: road %q to %q: %w", r.Name, r.To, ErrUnknownLocation)
		}

		length := int(math.Ceil(from.Coords.Distance(to.Coords)))
		if r.Length != nil {
			length = *r.Length
		}
		road := domain.Road{Name: r.Name, Length: length, FuelCost: r.FuelCost}
		if err := g.AddRoad(r.From, r.To, road); err != nil {
			return nil, fmt.Errorf("build problem: road %q: %w", r.Name, err)
		}
		if r.TwoWay {
			road.Name = r.Name + "-back"
			if err := g.AddRoad(r.To, r.From, road); err != nil {
				return nil, fmt.Errorf("build problem: road %q: %w", road.Name, err)
			}
		}
	}
	return g, nil
}

func requireLocation(g *domain.RoadGraph, name, format string, args ...any) error {
	if _, ok := g.Location(name); ok {
		return nil
	}
	return fmt.Errorf("build problem: %s at %q: %w", fmt.Sprintf(format, args...), name, ErrUnknownLocation)
}
