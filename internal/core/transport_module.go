package core

import "github.com/pkg/errors"

// TransportModule carries a single, not-yet-mounted Module from its current
// location to Destination. It behaves like Transport except the thing being
// relocated is the module itself rather than the task's own coordinate, so
// the module's coordinate is set to the payload coordinate after each
// successful step.
//
// TransportModule tasks reference a *Module directly and are regenerated
// (not deep-copied) whenever the owning world is cloned, since the module
// they target is itself being replaced by its clone.
type TransportModule struct {
	*TaskHeader
	Module      *Module
	Destination Coordinate
	Resistance  float64
}

// NewTransportModule constructs a TransportModule task anchored at the
// module's current coordinate.
func NewTransportModule(name string, module *Module, destination Coordinate, resistance, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*TransportModule, error) {
	if resistance <= 0 {
		return nil, errors.Errorf("transport_module task %s: resistance must be positive, got %v", name, resistance)
	}
	totalWorkload := resistance * module.Coordinate.DistanceTo(destination)
	h, err := NewTaskHeader(name, module.Coordinate, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &TransportModule{TaskHeader: h, Module: module, Destination: destination, Resistance: resistance}, nil
}

// NewTransportModuleFromState reconstructs a TransportModule task with an
// explicit totalWorkload instead of deriving it from the module's current
// coordinate, analogous to NewTransportFromState.
func NewTransportModuleFromState(name string, module *Module, coordinate, destination Coordinate, resistance, totalWorkload, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*TransportModule, error) {
	if resistance <= 0 {
		return nil, errors.Errorf("transport_module task %s: resistance must be positive, got %v", name, resistance)
	}
	h, err := NewTaskHeader(name, coordinate, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &TransportModule{TaskHeader: h, Module: module, Destination: destination, Resistance: resistance}, nil
}

// Update advances the convoy and the carried module by one step.
func (t *TransportModule) Update() (bool, error) {
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
			return false, errors.Wrapf(err, "transport_module task %s: convoy member %s failed to follow", t.Name(), r.Name)
		}
	}
	t.SetCoordinate(newCoord)
	t.Module.SetCoordinate(newCoord)
	newRemaining := remaining - moved
	t.SetCompletedWorkload(t.TotalWorkload() - newRemaining*t.Resistance)
	return true, nil
}
