// Package sim implements the discrete-event simulator: one Step executes
// the full per-agent decide / per-task execute / end-of-step ordering
// described by the component design, and derives the scalar metrics the
// optimizer's objectives consume.
package sim

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Yuki-Tanigaki/modutask/internal/agent"
	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// Simulator owns one run's agents, base tasks, charge facilities and risk
// scenarios, and steps them forward in lockstep.
type Simulator struct {
	Agents        map[string]*agent.Agent
	Tasks         map[string]core.Task
	ChargeTasks   map[string]*core.Charge
	SimulationMap *core.SimulationMap
	Scenarios     []core.RiskScenario
	// Modules is the full module registry of the owning world, not just the
	// modules currently mounted on a live robot: spares, assembly-pending
	// components and modules dropped on error all still count toward
	// MaxOperatingTime.
	Modules map[string]*core.Module

	step int
}

// New constructs a Simulator. One Charge task is created per charge
// station in simMap; these are not part of tasks and never appear in a
// priority list or workload sum. modules is the owning world's full module
// registry, used by MaxOperatingTime.
func New(robots map[string]*core.Robot, taskPriorities map[string][]string, tasks map[string]core.Task, simMap *core.SimulationMap, scenarios []core.RiskScenario, modules map[string]*core.Module) (*Simulator, error) {
	agents := make(map[string]*agent.Agent, len(robots))
	for name, r := range robots {
		agents[name] = agent.NewAgent(r, taskPriorities[name])
	}

	chargeTasks := make(map[string]*core.Charge, len(simMap.ChargeStations))
	for name, station := range simMap.ChargeStations {
		ct, err := core.NewCharge("charge:"+name, station)
		if err != nil {
			return nil, err
		}
		chargeTasks[name] = ct
	}

	return &Simulator{
		Agents:        agents,
		Tasks:         tasks,
		ChargeTasks:   chargeTasks,
		SimulationMap: simMap,
		Scenarios:     scenarios,
		Modules:       modules,
	}, nil
}

func (s *Simulator) sortedAgentNames() []string {
	names := make([]string, 0, len(s.Agents))
	for n := range s.Agents {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Simulator) sortedTaskNames() []string {
	names := make([]string, 0, len(s.Tasks))
	for n := range s.Tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Step executes exactly one simulation step: every agent decides, every
// task executes once, charge facilities execute, and every robot's state is
// recomputed against the active scenarios.
func (s *Simulator) Step() error {
	agentNames := s.sortedAgentNames()
	for _, name := range agentNames {
		a := s.Agents[name]
		if err := a.Decide(s.Tasks, s.ChargeTasks, s.SimulationMap); err != nil {
			return errors.Wrapf(err, "agent %s: decide", name)
		}
	}

	for _, name := range s.sortedTaskNames() {
		task := s.Tasks[name]
		progressed, err := task.Update()
		if err != nil {
			return errors.Wrapf(err, "task %s: update", name)
		}
		if progressed {
			for _, robot := range task.AssignedRobots() {
				for _, a := range s.Agents {
					if a.Robot == robot {
						a.MarkWorked()
					}
				}
			}
		}
		task.ReleaseRobots()
	}

	for _, name := range sortedChargeNames(s.ChargeTasks) {
		ct := s.ChargeTasks[name]
		if _, err := ct.Update(); err != nil {
			return errors.Wrapf(err, "charge station %s: update", name)
		}
		ct.ReleaseRobots()
	}

	for _, name := range agentNames {
		s.Agents[name].EndStep(s.Scenarios)
	}

	s.step++
	return nil
}

func sortedChargeNames(m map[string]*core.Charge) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run executes up to maxStep steps, stopping early only on error.
func (s *Simulator) Run(maxStep int) error {
	for i := 0; i < maxStep; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// TotalRemainingWorkload sums (total - completed) over base tasks only,
// excluding any task that is itself a generated Assembly or
// TransportModule.
func (s *Simulator) TotalRemainingWorkload() float64 {
	var sum float64
	for _, task := range s.Tasks {
		switch task.(type) {
		case *core.Assembly, *core.TransportModule:
			continue
		}
		sum += task.TotalWorkload() - task.CompletedWorkload()
	}
	return sum
}

// TotalRemainingWorkloadAll sums (total - completed) over every task,
// including generated Assembly and TransportModule tasks.
func (s *Simulator) TotalRemainingWorkloadAll() float64 {
	var sum float64
	for _, task := range s.Tasks {
		sum += task.TotalWorkload() - task.CompletedWorkload()
	}
	return sum
}

// WeightedVarianceRemainingWorkload is the spatial dispersion of unfinished
// base-task work: the weighted variance of task coordinates, weighted by
// remaining workload.
func (s *Simulator) WeightedVarianceRemainingWorkload() float64 {
	var coords []core.Coordinate
	var weights []float64
	for _, task := range s.Tasks {
		switch task.(type) {
		case *core.Assembly, *core.TransportModule:
			continue
		}
		coords = append(coords, task.Coordinate())
		weights = append(weights, task.TotalWorkload()-task.CompletedWorkload())
	}
	return core.WeightedVariance(coords, weights)
}

// MaxOperatingTime is the maximum cumulative operating_time across the
// world's entire module registry, not just modules currently mounted on a
// robot: spares, assembly-pending components and modules dropped on error
// all still wear out and still bound the fleet's maximal operating time.
func (s *Simulator) MaxOperatingTime() float64 {
	var max float64
	for _, m := range s.Modules {
		if m.OperatingTime > max {
			max = m.OperatingTime
		}
	}
	return max
}
