package domain

import "slices"

// Delivery vehicle holding packages and moving along roads.
//
// Location is empty while the vehicle is on a road (temporal replay only);
// Road then names the road it occupies. Loading is the mutual-exclusion flag
// raised while a pick-up or drop is in progress.
type Vehicle struct {
	Name        string
	Location    string
	Road        string
	Target      string
	CurCapacity int
	MaxCapacity int
	CurFuel     int
	MaxFuel     int
	Packages    []string
	Loading     bool
}

// Report whether the named package is loaded in the vehicle.
func (v Vehicle) Carries(pkg string) bool {
	return slices.Contains(v.Packages, pkg)
}

// AtTarget reports whether the vehicle has no target or sits at it.
func (v Vehicle) AtTarget() bool {
	return v.Target == "" || v.Location == v.Target
}

// Return a copy of the vehicle with pkg loaded and its capacity reduced.
func (v Vehicle) load(pkg string, size int) Vehicle {
	packages := make([]string, 0, len(v.Packages)+1)
	packages = append(packages, v.Packages...)
	v.Packages = append(packages, pkg)
	v.CurCapacity -= size
	return v
}

// Return a copy of the vehicle with pkg removed and its capacity restored.
func (v Vehicle) unload(pkg string, size int) Vehicle {
	packages := make([]string, 0, len(v.Packages))
	for _, p := range v.Packages {
		if p != pkg {
			packages = append(packages, p)
		}
	}
	v.Packages = packages
	v.CurCapacity += size
	return v
}

func (v Vehicle) equal(o Vehicle) bool {
	return v.Name == o.Name &&
		v.Location == o.Location &&
		v.Road == o.Road &&
		v.Target == o.Target &&
		v.CurCapacity == o.CurCapacity &&
		v.MaxCapacity == o.MaxCapacity &&
		v.CurFuel == o.CurFuel &&
		v.MaxFuel == o.MaxFuel &&
		v.Loading == o.Loading &&
		slices.Equal(v.Packages, o.Packages)
}
