// Package agent implements the per-robot decision loop: recharge decisions,
// task selection from a fixed priority list, and engage/travel dispatch.
package agent

import (
	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// State is the agent's observable lifecycle state for one simulation step.
type State int

const (
	Idle State = iota
	Move
	Assigned
	Charge
	Work
	NoEnergy
	Defective
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Move:
		return "MOVE"
	case Assigned:
		return "ASSIGNED"
	case Charge:
		return "CHARGE"
	case Work:
		return "WORK"
	case NoEnergy:
		return "NO_ENERGY"
	case Defective:
		return "DEFECTIVE"
	default:
		return "UNKNOWN"
	}
}

// Agent wraps one robot and its fixed task-priority permutation.
type Agent struct {
	Robot    *core.Robot
	Priority []string

	State State

	boundTask   core.Task
	boundCharge *core.Charge
}

// NewAgent constructs an agent bound to robot with the given task-name
// priority order.
func NewAgent(robot *core.Robot, priority []string) *Agent {
	return &Agent{Robot: robot, Priority: priority, State: Idle}
}

// BoundTask returns the non-charge task the agent has committed to for this
// step, if any.
func (a *Agent) BoundTask() core.Task { return a.boundTask }

// Decide runs steps 1-4 of the per-step loop: mirror robot failure states,
// evaluate the recharge decision, pick a task from the priority list, and
// either engage or move toward the chosen target. chargeTasks maps charge
// station name to its persistent Charge task.
func (a *Agent) Decide(tasks map[string]core.Task, chargeTasks map[string]*core.Charge, simMap *core.SimulationMap) error {
	switch a.Robot.State() {
	case core.RobotNoEnergy:
		a.State = NoEnergy
		return nil
	case core.RobotDefective:
		a.State = Defective
		return nil
	}

	if a.decideRecharge(chargeTasks, simMap) {
		return a.engage(a.boundCharge)
	}

	if a.boundTask == nil {
		a.selectTask(tasks)
	}
	if a.boundTask == nil {
		a.State = Idle
		return nil
	}
	return a.engage(a.boundTask)
}

// decideRecharge returns true if the agent is (or remains) bound to
// charging this step.
func (a *Agent) decideRecharge(chargeTasks map[string]*core.Charge, simMap *core.SimulationMap) bool {
	if a.boundCharge != nil {
		if a.Robot.IsBatteryFull() {
			a.boundCharge = nil
			return false
		}
		return true
	}
	if a.Robot.TotalBattery() >= a.Robot.Type.RechargeTrigger {
		return false
	}
	station := simMap.Nearest(a.Robot.Coordinate)
	if station == nil {
		return false
	}
	chargeTask, ok := chargeTasks[station.Name]
	if !ok {
		return false
	}
	a.boundTask = nil
	a.boundCharge = chargeTask
	return true
}

// selectTask walks the priority list and binds to the first task that is
// not completed and whose dependencies are satisfied.
func (a *Agent) selectTask(tasks map[string]core.Task) {
	for _, name := range a.Priority {
		task, ok := tasks[name]
		if !ok || task.IsCompleted() || !task.DependenciesCompleted() {
			continue
		}
		a.boundTask = task
		return
	}
}

func (a *Agent) engage(target core.Task) error {
	if a.Robot.Coordinate.EqualEps(target.Coordinate()) {
		if err := target.AssignRobot(a.Robot); err != nil {
			return err
		}
		if a.boundCharge != nil {
			a.State = Charge
		} else {
			a.State = Assigned
		}
		return nil
	}
	if err := a.Robot.Travel(target.Coordinate()); err != nil {
		return err
	}
	a.State = Move
	return nil
}

// MarkWorked is called by the simulator after task execution for every
// agent whose bound task made progress this step.
func (a *Agent) MarkWorked() {
	if a.State == Assigned {
		a.State = Work
	}
}

// EndStep releases the non-charge task binding and recomputes robot state
// against the given scenarios, per the simulator's end-of-step contract.
// The charge binding persists across steps until the robot is full. An
// active, non-charging agent returns to IDLE unless it was marked WORK this
// step, so WORK stays observable until the next Decide.
func (a *Agent) EndStep(scenarios []core.RiskScenario) {
	a.boundTask = nil
	a.Robot.UpdateState(scenarios)
	if a.Robot.State() == core.RobotActive && a.boundCharge == nil && a.State != Work {
		a.State = Idle
	}
}
