package catalog

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Yuki-Tanigaki/modutask/internal/cloning"
	"github.com/Yuki-Tanigaki/modutask/internal/core"
	"github.com/Yuki-Tanigaki/modutask/internal/risk"
)

func parseCoordinate(c [2]float64) core.Coordinate {
	return core.Coordinate{X: c[0], Y: c[1]}
}

func parseModuleState(s string) (core.ModuleState, error) {
	switch s {
	case "ACTIVE":
		return core.ModuleActive, nil
	case "ERROR":
		return core.ModuleError, nil
	default:
		return 0, errors.Errorf("module: unknown state %q", s)
	}
}

func parsePerformanceAttribute(s string) (core.PerformanceAttribute, error) {
	switch s {
	case "TRANSPORT":
		return core.AttrTransport, nil
	case "MANUFACTURE":
		return core.AttrManufacture, nil
	case "MOBILITY":
		return core.AttrMobility, nil
	default:
		return 0, errors.Errorf("unknown performance attribute %q", s)
	}
}

func parsePerformanceMap(m map[string]float64) (map[core.PerformanceAttribute]float64, error) {
	out := make(map[core.PerformanceAttribute]float64, len(m))
	for k, v := range m {
		attr, err := parsePerformanceAttribute(k)
		if err != nil {
			return nil, err
		}
		out[attr] = v
	}
	return out, nil
}

// Build converts a fully-decoded Bundle into a mutable cloning.World. It
// performs the cross-catalog wiring (module type -> module, robot type and
// components -> robot, dependency graph -> task.InitializeDependencies)
// that a hand-authored YAML set depends on an external loader to do.
func Build(b *Bundle) (*cloning.World, error) {
	moduleTypes, err := buildModuleTypes(b.ModuleTypes)
	if err != nil {
		return nil, err
	}

	modules, err := buildModules(b.Modules, moduleTypes)
	if err != nil {
		return nil, err
	}

	robotTypes, err := buildRobotTypes(b.RobotTypes, moduleTypes)
	if err != nil {
		return nil, err
	}

	if err := ValidateNoSharedModules(b.Robots); err != nil {
		return nil, err
	}
	robots, err := buildRobots(b.Robots, robotTypes, modules)
	if err != nil {
		return nil, err
	}

	tasks, err := buildTasks(b.Tasks, modules, robotTypes)
	if err != nil {
		return nil, err
	}

	taskNames := make(map[string]bool, len(tasks))
	for name := range tasks {
		taskNames[name] = true
	}
	deps, err := Dependencies(b.TaskDependency, taskNames)
	if err != nil {
		return nil, err
	}
	for name, task := range tasks {
		var resolved []core.Task
		for _, depName := range deps[name] {
			resolved = append(resolved, tasks[depName])
		}
		task.InitializeDependencies(resolved)
	}

	scenarios, err := buildRiskScenarios(b.RiskScenarios)
	if err != nil {
		return nil, err
	}

	simMap, err := buildSimulationMap(b.Map)
	if err != nil {
		return nil, err
	}

	priorities := map[string][]string(b.TaskPriority)
	if priorities == nil {
		priorities = make(map[string][]string)
	}
	if b.TaskPriority != nil {
		if err := ValidateTaskPriority(b.TaskPriority, taskNames); err != nil {
			return nil, err
		}
	}

	return &cloning.World{
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

func buildModuleTypes(entries ModuleTypes) (map[string]core.ModuleType, error) {
	out := make(map[string]core.ModuleType, len(entries))
	for name, e := range entries {
		out[name] = core.ModuleType{Name: name, MaxBattery: e.MaxBattery}
	}
	return out, nil
}

func buildModules(entries Modules, moduleTypes map[string]core.ModuleType) (map[string]*core.Module, error) {
	out := make(map[string]*core.Module, len(entries))
	for name, e := range entries {
		mt, ok := moduleTypes[e.ModuleType]
		if !ok {
			return nil, errors.Errorf("module %q: unknown module_type %q", name, e.ModuleType)
		}
		state, err := parseModuleState(e.State)
		if err != nil {
			return nil, errors.Wrapf(err, "module %q", name)
		}
		m, err := core.NewModule(mt, name, parseCoordinate(e.Coordinate), e.Battery, e.OperatingTime, state)
		if err != nil {
			return nil, err
		}
		out[name] = m
	}
	return out, nil
}

func buildRobotTypes(entries RobotTypes, moduleTypes map[string]core.ModuleType) (map[string]core.RobotType, error) {
	out := make(map[string]core.RobotType, len(entries))
	for name, e := range entries {
		required := make(map[core.ModuleType]int, len(e.RequiredModules))
		for mtName, count := range e.RequiredModules {
			mt, ok := moduleTypes[mtName]
			if !ok {
				return nil, errors.Errorf("robot_type %q: unknown module_type %q", name, mtName)
			}
			required[mt] = count
		}
		performance, err := parsePerformanceMap(e.Performance)
		if err != nil {
			return nil, errors.Wrapf(err, "robot_type %q", name)
		}
		out[name] = core.RobotType{
			Name:             name,
			RequiredModules:  required,
			Performance:      performance,
			PowerConsumption: e.PowerConsumption,
			RechargeTrigger:  e.RechargeTrigger,
		}
	}
	return out, nil
}

func buildRobots(entries Robots, robotTypes map[string]core.RobotType, modules map[string]*core.Module) (map[string]*core.Robot, error) {
	out := make(map[string]*core.Robot, len(entries))
	for name, e := range entries {
		rt, ok := robotTypes[e.RobotType]
		if !ok {
			return nil, errors.Errorf("robot %q: unknown robot_type %q", name, e.RobotType)
		}
		required, err := lookupModules(e.Component, modules)
		if err != nil {
			return nil, errors.Wrapf(err, "robot %q", name)
		}
		r, err := core.NewRobot(rt, name, parseCoordinate(e.Coordinate), required)
		if err != nil {
			return nil, err
		}
		out[name] = r
	}
	return out, nil
}

func lookupModules(names []string, modules map[string]*core.Module) ([]*core.Module, error) {
	out := make([]*core.Module, 0, len(names))
	for _, n := range names {
		m, ok := modules[n]
		if !ok {
			return nil, errors.Errorf("unknown module %q", n)
		}
		out = append(out, m)
	}
	return out, nil
}

func buildTasks(entries Tasks, modules map[string]*core.Module, robotTypes map[string]core.RobotType) (map[string]core.Task, error) {
	out := make(map[string]core.Task, len(entries))
	for name, e := range entries {
		performance, err := parsePerformanceMap(e.RequiredPerformance)
		if err != nil {
			return nil, errors.Wrapf(err, "task %q", name)
		}
		switch e.Class {
		case "Manufacture":
			if e.TotalWorkload == nil {
				return nil, errors.Errorf("task %q: manufacture requires totalWorkload", name)
			}
			t, err := core.NewManufacture(name, parseCoordinate(e.Coordinate), *e.TotalWorkload, e.CompletedWorkload, performance)
			if err != nil {
				return nil, err
			}
			out[name] = t

		case "Transport":
			if e.Origin == nil || e.Destination == nil || e.Resistance == nil {
				return nil, errors.Errorf("task %q: transport requires origin, destination and resistance", name)
			}
			t, err := core.NewTransport(name, parseCoordinate(*e.Origin), parseCoordinate(*e.Destination), *e.Resistance, e.CompletedWorkload, performance)
			if err != nil {
				return nil, err
			}
			out[name] = t

		case "TransportModule":
			if e.Destination == nil || e.Resistance == nil {
				return nil, errors.Errorf("task %q: transport_module requires destination and resistance", name)
			}
			m, ok := modules[e.Module]
			if !ok {
				return nil, errors.Errorf("task %q: unknown module %q", name, e.Module)
			}
			t, err := core.NewTransportModule(name, m, parseCoordinate(*e.Destination), *e.Resistance, e.CompletedWorkload, performance)
			if err != nil {
				return nil, err
			}
			out[name] = t

		case "Assembly":
			rt, ok := robotTypes[e.RobotType]
			if !ok {
				return nil, errors.Errorf("task %q: unknown robot_type %q", name, e.RobotType)
			}
			required, err := lookupModules(e.RequiredComponents, modules)
			if err != nil {
				return nil, errors.Wrapf(err, "task %q", name)
			}
			t, err := core.NewAssembly(name, rt, e.RobotName, parseCoordinate(e.Coordinate), required, e.CompletedWorkload, performance)
			if err != nil {
				return nil, err
			}
			out[name] = t

		default:
			return nil, errors.Errorf("task %q: unknown class %q", name, e.Class)
		}
	}
	return out, nil
}

func buildRiskScenarios(entries RiskScenarios) (map[string]core.RiskScenario, error) {
	out := make(map[string]core.RiskScenario, len(entries))
	for name, e := range entries {
		switch e.Class {
		case "ExponentialWear":
			if e.FailureRate == nil {
				return nil, errors.Errorf("risk_scenario %q: exponential_wear requires failureRate", name)
			}
			out[name] = risk.NewExponentialWear(name, *e.FailureRate, e.Seed)
		case "SigmoidWear":
			if e.Sharpness == nil || e.Limit == nil {
				return nil, errors.Errorf("risk_scenario %q: sigmoid_wear requires sharpness and limit", name)
			}
			out[name] = risk.NewSigmoidWear(name, *e.Sharpness, *e.Limit, e.Seed)
		default:
			return nil, errors.Errorf("risk_scenario %q: unknown class %q", name, e.Class)
		}
	}
	return out, nil
}

func buildSimulationMap(entries SimulationMap) (*core.SimulationMap, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	stations := make([]*core.ChargeStation, 0, len(names))
	for _, name := range names {
		e := entries[name]
		s, err := core.NewChargeStation(name, parseCoordinate(e.Coordinate), e.ChargingSpeed)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return core.NewSimulationMap(stations)
}
