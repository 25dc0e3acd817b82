package domain

import "math"

// Immutable planar coordinates of a location.
type Coordinates struct {
	X float64
	Y float64
}

// Return the Euclidean distance between two points.
func (c Coordinates) Distance(o Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}
