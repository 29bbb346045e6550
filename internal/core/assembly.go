package core

// Assembly incrementally mounts a fixed set of modules onto a
// not-yet-complete robot (Target), one component per successful step.
// Target is instantiated at construction, so any required module that is
// already ACTIVE and coincident starts out mounted; Update then mounts the
// rest one at a time.
//
// Assembly tasks reference the *Module values that make up Target's
// required set directly and are regenerated (not deep-copied) whenever the
// owning world is cloned.
type Assembly struct {
	*TaskHeader
	Target *Robot
}

// NewAssembly constructs an Assembly task around a freshly-instantiated
// target robot. NewRobot auto-mounts any required module that is already
// ACTIVE and coincident, so total_workload is the count still missing
// after construction, not the full required count.
func NewAssembly(name string, robotType RobotType, robotName string, coordinate Coordinate, required []*Module, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*Assembly, error) {
	target, err := NewRobot(robotType, robotName, coordinate, required)
	if err != nil {
		return nil, err
	}
	totalWorkload := float64(len(target.MissingComponents()))
	h, err := NewTaskHeader(name, coordinate, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &Assembly{TaskHeader: h, Target: target}, nil
}

// Result returns the assembled robot once the task has completed, and nil
// otherwise.
func (t *Assembly) Result() *Robot {
	if !t.IsCompleted() {
		return nil
	}
	return t.Target
}

// Update scans Target's missing components and mounts the first one that is
// ACTIVE and coincident with Target's coordinate. It makes progress at most
// once per step even if several components would qualify.
func (t *Assembly) Update() (bool, error) {
	if t.IsCompleted() {
		return false, nil
	}
	if !t.DependenciesCompleted() || !t.IsPerformanceSatisfied() {
		return false, nil
	}
	for _, m := range t.Target.MissingComponents() {
		if m.IsActive() && m.Coordinate.EqualEps(t.Target.Coordinate) {
			if err := t.Target.MountModule(m); err != nil {
				return false, err
			}
			t.AddCompletedWorkload(1)
			return true, nil
		}
	}
	return false, nil
}
