// Package cloning produces an independent, mutable copy of a World: every
// module, robot and base task is reconstructed from scratch and
// cross-references are rewired through name maps, so the clone shares no
// mutable state with its origin. Assembly and TransportModule tasks are
// regenerated rather than structurally copied, since their targets are
// themselves being replaced by clones.
package cloning

import (
	"github.com/pkg/errors"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// World is the full mutable state of one simulation run.
type World struct {
	ModuleTypes    map[string]core.ModuleType
	Modules        map[string]*core.Module
	RobotTypes     map[string]core.RobotType
	Robots         map[string]*core.Robot
	Tasks          map[string]core.Task
	SimulationMap  *core.SimulationMap
	RiskScenarios  map[string]core.RiskScenario
	TaskPriorities map[string][]string
}

// Clone deep-copies w into a new, independent World.
func Clone(w *World) (*World, error) {
	moduleTypes := make(map[string]core.ModuleType, len(w.ModuleTypes))
	for name, mt := range w.ModuleTypes {
		moduleTypes[name] = mt
	}

	modules := make(map[string]*core.Module, len(w.Modules))
	for name, m := range w.Modules {
		clone, err := core.NewModule(m.Type, m.Name, m.Coordinate, m.Battery, m.OperatingTime, m.State)
		if err != nil {
			return nil, errors.Wrapf(err, "cloning module %s", name)
		}
		modules[name] = clone
	}

	robotTypes := make(map[string]core.RobotType, len(w.RobotTypes))
	for name, rt := range w.RobotTypes {
		robotTypes[name] = rt
	}

	robots := make(map[string]*core.Robot, len(w.Robots))
	for name, r := range w.Robots {
		required, err := rewireModules(r.Required, modules)
		if err != nil {
			return nil, errors.Wrapf(err, "cloning robot %s", name)
		}
		clone, err := core.NewRobot(r.Type, r.Name, r.Coordinate, required)
		if err != nil {
			return nil, errors.Wrapf(err, "cloning robot %s", name)
		}
		robots[name] = clone
	}

	tasks, err := cloneTasks(w.Tasks, modules)
	if err != nil {
		return nil, err
	}

	var simMap *core.SimulationMap
	if w.SimulationMap != nil {
		stations := make([]*core.ChargeStation, 0, len(w.SimulationMap.ChargeStations))
		for _, s := range w.SimulationMap.ChargeStations {
			clone, err := core.NewChargeStation(s.Name, s.Coordinate, s.ChargingSpeed)
			if err != nil {
				return nil, errors.Wrapf(err, "cloning charge station %s", s.Name)
			}
			stations = append(stations, clone)
		}
		simMap, err = core.NewSimulationMap(stations)
		if err != nil {
			return nil, err
		}
	}

	scenarios := make(map[string]core.RiskScenario, len(w.RiskScenarios))
	for name, s := range w.RiskScenarios {
		scenarios[name] = s.Clone()
	}

	priorities := make(map[string][]string, len(w.TaskPriorities))
	for name, list := range w.TaskPriorities {
		priorities[name] = append([]string(nil), list...)
	}

	return &World{
		ModuleTypes:    moduleTypes,
		Modules:        modules,
		RobotTypes:     robotTypes,
		Robots:         robots,
		Tasks:          tasks,
		SimulationMap:  simMap,
		RiskScenarios:  scenarios,
		TaskPriorities: priorities,
	}, nil
}

func rewireModules(originals []*core.Module, byName map[string]*core.Module) ([]*core.Module, error) {
	rewired := make([]*core.Module, len(originals))
	for i, m := range originals {
		clone, ok := byName[m.Name]
		if !ok {
			return nil, errors.Errorf("module %s not found in clone map", m.Name)
		}
		rewired[i] = clone
	}
	return rewired, nil
}

func cloneTasks(tasks map[string]core.Task, modules map[string]*core.Module) (map[string]core.Task, error) {
	clones := make(map[string]core.Task, len(tasks))
	dependencyNames := make(map[string][]string, len(tasks))

	for name, task := range tasks {
		var depNames []string
		for _, dep := range task.Dependencies() {
			depNames = append(depNames, dep.Name())
		}
		dependencyNames[name] = depNames

		switch t := task.(type) {
		case *core.Manufacture:
			clone, err := core.NewManufacture(t.Name(), t.Coordinate(), t.TotalWorkload(), t.CompletedWorkload(), copyPerformance(t.RequiredPerformance()))
			if err != nil {
				return nil, errors.Wrapf(err, "cloning manufacture task %s", name)
			}
			clones[name] = clone

		case *core.Transport:
			// Preserve the original total_workload rather than re-deriving it
			// from the task's current (possibly mid-route) coordinate, which
			// would silently shrink it to the remaining distance.
			clone, err := core.NewTransportFromState(t.Name(), t.Coordinate(), t.Destination, t.Resistance, t.TotalWorkload(), t.CompletedWorkload(), copyPerformance(t.RequiredPerformance()))
			if err != nil {
				return nil, errors.Wrapf(err, "cloning transport task %s", name)
			}
			clones[name] = clone

		case *core.TransportModule:
			rewired, err := rewireModules([]*core.Module{t.Module}, modules)
			if err != nil {
				return nil, errors.Wrapf(err, "cloning transport_module task %s", name)
			}
			clone, err := core.NewTransportModuleFromState(t.Name(), rewired[0], t.Coordinate(), t.Destination, t.Resistance, t.TotalWorkload(), t.CompletedWorkload(), copyPerformance(t.RequiredPerformance()))
			if err != nil {
				return nil, errors.Wrapf(err, "cloning transport_module task %s", name)
			}
			clones[name] = clone

		case *core.Assembly:
			required, err := rewireModules(t.Target.Required, modules)
			if err != nil {
				return nil, errors.Wrapf(err, "regenerating assembly task %s", name)
			}
			clone, err := core.NewAssembly(t.Name(), t.Target.Type, t.Target.Name, t.Target.Coordinate, required, 0, copyPerformance(t.RequiredPerformance()))
			if err != nil {
				return nil, errors.Wrapf(err, "regenerating assembly task %s", name)
			}
			clones[name] = clone

		case *core.Charge:
			clone, err := core.NewCharge(t.Name(), t.Station)
			if err != nil {
				return nil, errors.Wrapf(err, "cloning charge task %s", name)
			}
			clones[name] = clone

		default:
			return nil, errors.Errorf("clone of task %s: unsupported task type %T", name, task)
		}
	}

	for name, clone := range clones {
		var deps []core.Task
		for _, depName := range dependencyNames[name] {
			dep, ok := clones[depName]
			if !ok {
				return nil, errors.Errorf("task %s: dependency %s missing from clone set", name, depName)
			}
			deps = append(deps, dep)
		}
		clone.InitializeDependencies(deps)
	}

	return clones, nil
}

func copyPerformance(m map[core.PerformanceAttribute]float64) map[core.PerformanceAttribute]float64 {
	out := make(map[core.PerformanceAttribute]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
