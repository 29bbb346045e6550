package core

import "github.com/pkg/errors"

// Transport carries the task's own location from its construction point to
// Destination. Assigned robots form a convoy: they must already coincide
// with the task (enforced by AssignRobot), and the convoy's adjusted speed
// is the slowest member's AttrMobility divided by Resistance.
// completed_workload is recomputed each step from the remaining distance,
// not accumulated, so it always equals total - ||destination-pos||*resistance.
type Transport struct {
	*TaskHeader
	Destination Coordinate
	Resistance  float64
}

// NewTransport constructs a Transport task. totalWorkload is the
// straight-line origin-to-destination distance scaled by resistance.
func NewTransport(name string, origin, destination Coordinate, resistance, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*Transport, error) {
	if resistance <= 0 {
		return nil, errors.Errorf("transport task %s: resistance must be positive, got %v", name, resistance)
	}
	totalWorkload := resistance * origin.DistanceTo(destination)
	h, err := NewTaskHeader(name, origin, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &Transport{TaskHeader: h, Destination: destination, Resistance: resistance}, nil
}

// NewTransportFromState reconstructs a Transport task with an explicit
// totalWorkload instead of deriving it from coordinate-to-destination
// distance. Used when recreating a task from already-known state (e.g.
// cloning a partially-completed transport), where recomputing from the
// current coordinate would silently shrink totalWorkload to the remaining
// distance.
func NewTransportFromState(name string, coordinate, destination Coordinate, resistance, totalWorkload, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*Transport, error) {
	if resistance <= 0 {
		return nil, errors.Errorf("transport task %s: resistance must be positive, got %v", name, resistance)
	}
	h, err := NewTaskHeader(name, coordinate, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &Transport{TaskHeader: h, Destination: destination, Resistance: resistance}, nil
}

// Update advances the convoy by one step toward Destination at the adjusted
// convoy speed, capped by the remaining distance.
func (t *Transport) Update() (bool, error) {
	if t.IsCompleted() {
		return false, nil
	}
	if !t.DependenciesCompleted() || !t.IsPerformanceSatisfied() {
		return false, nil
	}
	robots := t.AssignedRobots()
	if len(robots) == 0 {
		return false, nil
	}
	minMobility := robots[0].Type.Performance[AttrMobility]
	for _, r := range robots[1:] {
		if m := r.Type.Performance[AttrMobility]; m < minMobility {
			minMobility = m
		}
	}
	adjustedSpeed := minMobility / t.Resistance

	remaining := t.Coordinate().DistanceTo(t.Destination)
	newCoord, moved := t.Coordinate().StepToward(t.Destination, adjustedSpeed)
	if moved <= 0 {
		return false, nil
	}
	for _, r := range robots {
		if err := r.relocateTo(newCoord); err != nil {
			return false, errors.Wrapf(err, "transport task %s: convoy member %s failed to follow", t.Name(), r.Name)
		}
	}
	t.SetCoordinate(newCoord)
	newRemaining := remaining - moved
	t.SetCompletedWorkload(t.TotalWorkload() - newRemaining*t.Resistance)
	return true, nil
}
