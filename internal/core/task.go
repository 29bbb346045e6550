package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Task is the common interface over all task variants. The simulator
// dispatches through Update; there is no inheritance, only a shared header
// (see TaskHeader) embedded by each concrete type.
type Task interface {
	// Update executes one step of this task, returning whether it made
	// progress. Preconditions (performance satisfied, dependencies
	// completed) are checked inside Update per §4.2.
	Update() (bool, error)

	Name() string
	Coordinate() Coordinate
	TotalWorkload() float64
	CompletedWorkload() float64
	RequiredPerformance() map[PerformanceAttribute]float64
	Dependencies() []Task
	AssignedRobots() []*Robot

	IsCompleted() bool
	DependenciesCompleted() bool
	IsPerformanceSatisfied() bool

	AssignRobot(r *Robot) error
	ReleaseRobots()

	InitializeDependencies(deps []Task)
}

// TaskHeader holds the attributes common to every task variant (§3
// "Common task attributes"). Concrete task types embed a pointer to it and
// implement Update().
type TaskHeader struct {
	name                 string
	coordinate           Coordinate
	totalWorkload        float64
	completedWorkload    float64
	requiredPerformance  map[PerformanceAttribute]float64
	dependencies         []Task
	dependenciesSet      bool
	assignedRobots       []*Robot
}

// NewTaskHeader validates and constructs the common task state.
func NewTaskHeader(name string, coordinate Coordinate, totalWorkload, completedWorkload float64, requiredPerformance map[PerformanceAttribute]float64) (*TaskHeader, error) {
	if totalWorkload < 0 {
		return nil, errors.Errorf("task %s: total_workload must be non-negative, got %v", name, totalWorkload)
	}
	if completedWorkload < 0 {
		return nil, errors.Errorf("task %s: completed_workload must be non-negative, got %v", name, completedWorkload)
	}
	if completedWorkload > totalWorkload {
		return nil, errors.Errorf("task %s: completed_workload %v exceeds total_workload %v", name, completedWorkload, totalWorkload)
	}
	if requiredPerformance == nil {
		requiredPerformance = map[PerformanceAttribute]float64{}
	}
	return &TaskHeader{
		name:                name,
		coordinate:          coordinate,
		totalWorkload:       totalWorkload,
		completedWorkload:   completedWorkload,
		requiredPerformance: requiredPerformance,
	}, nil
}

func (h *TaskHeader) Name() string      { return h.name }
func (h *TaskHeader) Coordinate() Coordinate { return h.coordinate }
func (h *TaskHeader) SetCoordinate(c Coordinate) { h.coordinate = c }
func (h *TaskHeader) TotalWorkload() float64      { return h.totalWorkload }
func (h *TaskHeader) CompletedWorkload() float64  { return h.completedWorkload }

func (h *TaskHeader) RequiredPerformance() map[PerformanceAttribute]float64 {
	return h.requiredPerformance
}

// AddCompletedWorkload advances completed_workload, clamping to
// total_workload; completion is monotone non-decreasing by construction
// (callers only ever pass non-negative deltas).
func (h *TaskHeader) AddCompletedWorkload(delta float64) {
	h.completedWorkload += delta
	if h.completedWorkload > h.totalWorkload {
		h.completedWorkload = h.totalWorkload
	}
}

// SetCompletedWorkload is used by variants (Transport) that compute
// completed_workload directly from remaining distance rather than an
// incremental delta.
func (h *TaskHeader) SetCompletedWorkload(v float64) {
	if v < 0 {
		v = 0
	}
	if v > h.totalWorkload {
		v = h.totalWorkload
	}
	h.completedWorkload = v
}

func (h *TaskHeader) Dependencies() []Task {
	return h.dependencies
}

// InitializeDependencies sets the dependency list. Must be called before
// DependenciesCompleted is used (mirrors the original's
// initialize_task_dependency contract).
func (h *TaskHeader) InitializeDependencies(deps []Task) {
	h.dependencies = deps
	h.dependenciesSet = true
}

func (h *TaskHeader) AssignedRobots() []*Robot {
	return h.assignedRobots
}

func (h *TaskHeader) IsCompleted() bool {
	return h.completedWorkload >= h.totalWorkload
}

func (h *TaskHeader) DependenciesCompleted() bool {
	for _, dep := range h.dependencies {
		if !dep.IsCompleted() {
			return false
		}
	}
	return true
}

func (h *TaskHeader) IsPerformanceSatisfied() bool {
	var maps []map[PerformanceAttribute]float64
	for _, r := range h.assignedRobots {
		maps = append(maps, r.Type.Performance)
	}
	total := SumPerformance(maps...)
	return PerformanceSatisfied(total, h.requiredPerformance)
}

// AssignRobot appends r to the assignment list, enforcing strict coordinate
// coincidence and ACTIVE state at assignment time (spec §9 Open Question
// (b): no laxer rule).
func (h *TaskHeader) AssignRobot(r *Robot) error {
	if r.State() != RobotActive {
		return errors.Errorf("task %s: cannot assign robot %s in state %s", h.name, r.Name, r.State())
	}
	if !r.Coordinate.EqualEps(h.coordinate) {
		return errors.Errorf("task %s: cannot assign robot %s at mismatched coordinate", h.name, r.Name)
	}
	h.assignedRobots = append(h.assignedRobots, r)
	return nil
}

// ReleaseRobots clears the assignment list; reassignment happens from
// scratch on the next step.
func (h *TaskHeader) ReleaseRobots() {
	h.assignedRobots = nil
}

func (h *TaskHeader) String() string {
	return fmt.Sprintf("%s[%.2f/%.2f]", h.name, h.completedWorkload, h.totalWorkload)
}
