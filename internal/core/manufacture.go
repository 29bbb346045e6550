package core

// Manufacture represents on-site fabrication work: each step in which the
// assigned robots jointly meet the required performance advances
// completed_workload by exactly 1, until total_workload is reached.
type Manufacture struct {
	*TaskHeader
}

// NewManufacture constructs a Manufacture task.
func NewManufacture(name string, coordinate Coordinate, totalWorkload, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*Manufacture, error) {
	h, err := NewTaskHeader(name, coordinate, totalWorkload, completedWorkload, requiredPerformance)
	if err != nil {
		return nil, err
	}
	return &Manufacture{TaskHeader: h}, nil
}

// Update advances the task by one step if dependencies are satisfied and the
// assigned robots jointly meet the required performance. It returns whether
// progress was made.
func (t *Manufacture) Update() (bool, error) {
	if t.IsCompleted() {
		return false, nil
	}
	if !t.DependenciesCompleted() || !t.IsPerformanceSatisfied() {
		return false, nil
	}
	for _, r := range t.AssignedRobots() {
		if err := r.Act(); err != nil {
			return false, err
		}
	}
	t.AddCompletedWorkload(1)
	return true, nil
}
