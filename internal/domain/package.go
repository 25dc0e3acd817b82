package domain

// Represents a single delivery unit handled by the planner.
// A Package either sits at exactly one location or is loaded in exactly one
// vehicle, in which case Location is empty.
type Package struct {
	Name     string
	Location string
	Target   string
	Size     int
}

func (p Package) Loaded() bool { return p.Location == "" }

// Delivered reports whether the package rests at its target location.
func (p Package) Delivered() bool { return p.Location != "" && p.Location == p.Target }
