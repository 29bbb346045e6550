// Package core defines the domain model for the modular-robot task system:
// module types, modules, robot types, robots, tasks, risk scenarios and the
// simulation map.
package core

import "math"

// CoordinateEpsilon is the absolute tolerance used for coordinate equality
// throughout the core (assignment coincidence checks, mount checks, snap-to
// destination on transport completion).
const CoordinateEpsilon = 1e-8

// Coordinate is a 2D point. All spatial reasoning in this package is
// straight-line; there is no workspace graph.
type Coordinate struct {
	X, Y float64
}

// Add returns c + other.
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns c - other.
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{X: c.X - other.X, Y: c.Y - other.Y}
}

// Scale returns c scaled by k.
func (c Coordinate) Scale(k float64) Coordinate {
	return Coordinate{X: c.X * k, Y: c.Y * k}
}

// Norm returns the Euclidean length of c treated as a vector.
func (c Coordinate) Norm() float64 {
	return math.Sqrt(c.X*c.X + c.Y*c.Y)
}

// DistanceTo returns the Euclidean distance between c and other.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return c.Sub(other).Norm()
}

// EqualEps reports whether c and other coincide within CoordinateEpsilon.
func (c Coordinate) EqualEps(other Coordinate) bool {
	return math.Abs(c.X-other.X) <= CoordinateEpsilon && math.Abs(c.Y-other.Y) <= CoordinateEpsilon
}

// StepToward advances from c toward target by at most maxDistance, snapping
// to target if it is already closer than maxDistance. It returns the new
// coordinate and the distance actually covered.
func (c Coordinate) StepToward(target Coordinate, maxDistance float64) (Coordinate, float64) {
	v := target.Sub(c)
	dist := v.Norm()
	if dist <= maxDistance || dist == 0 {
		return target, dist
	}
	return c.Add(v.Scale(maxDistance / dist)), maxDistance
}

// WeightedVariance returns the weighted variance of a set of points around
// their weighted centroid: sum(w_i * ||x_i - centroid||^2) / sum(w_i).
// Points with zero total weight return 0.
func WeightedVariance(points []Coordinate, weights []float64) float64 {
	if len(points) != len(weights) || len(points) == 0 {
		return 0
	}
	var totalWeight float64
	var centroid Coordinate
	for i, w := range weights {
		totalWeight += w
		centroid = centroid.Add(points[i].Scale(w))
	}
	if totalWeight == 0 {
		return 0
	}
	centroid = centroid.Scale(1 / totalWeight)

	var sum float64
	for i, w := range weights {
		d := points[i].DistanceTo(centroid)
		sum += w * d * d
	}
	return sum / totalWeight
}
