// Package objective builds the two fitness functions the optimizer drives:
// robot configuration quality and task-allocation quality under simulation.
package objective

import (
	"math"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// Configuration evaluates a candidate robot fleet: minimize
// (-sum(TRANSPORT), -sum(MANUFACTURE), -sum(MOBILITY), sum(operating_time of
// used modules), sum(||module.coordinate - robot.coordinate||)). A fleet
// with no ACTIVE robot after state recomputation is infeasible and scores
// +Inf on every axis.
func Configuration(robots []*core.Robot) []float64 {
	anyActive := false
	var transport, manufacture, mobility float64
	var operatingTime float64
	var dispersion float64

	for _, r := range robots {
		if r.State() == core.RobotActive {
			anyActive = true
		}
		transport += r.Type.Performance[core.AttrTransport]
		manufacture += r.Type.Performance[core.AttrManufacture]
		mobility += r.Type.Performance[core.AttrMobility]
		for _, m := range r.Required {
			operatingTime += m.OperatingTime
			dispersion += m.Coordinate.DistanceTo(r.Coordinate)
		}
	}

	if !anyActive {
		return []float64{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)}
	}
	return []float64{-transport, -manufacture, -mobility, operatingTime, dispersion}
}

// Simulation is the minimal surface the task-allocation objective needs
// from a simulator run: the three per-scenario metrics it averages.
// TotalRemainingWorkload and TotalRemainingWorkloadAll differ only in
// whether generated Assembly/TransportModule tasks are included (spec
// Open Question (a)); TaskAllocation picks one per includeGenerated.
type Simulation interface {
	Run(maxStep int) error
	TotalRemainingWorkload() float64
	TotalRemainingWorkloadAll() float64
	WeightedVarianceRemainingWorkload() float64
	MaxOperatingTime() float64
}

// ScenarioBuilder constructs one freshly cloned, independently seeded
// simulation per training scenario name.
type ScenarioBuilder func(scenarioName string) (Simulation, error)

// TaskAllocation runs maxStep steps of a fresh clone per scenario in
// scenarioNames and returns the average of (total remaining workload,
// weighted variance of remaining workload, maximal operating time) across
// scenarios. includeGenerated selects TotalRemainingWorkloadAll over
// TotalRemainingWorkload, per the property file's residual-workload scope
// flag.
func TaskAllocation(scenarioNames []string, maxStep int, includeGenerated bool, build ScenarioBuilder) ([]float64, error) {
	if len(scenarioNames) == 0 {
		return []float64{0, 0, 0}, nil
	}
	var sumWorkload, sumVariance, sumMaxOpTime float64
	for _, name := range scenarioNames {
		sim, err := build(name)
		if err != nil {
			return nil, err
		}
		if err := sim.Run(maxStep); err != nil {
			return nil, err
		}
		if includeGenerated {
			sumWorkload += sim.TotalRemainingWorkloadAll()
		} else {
			sumWorkload += sim.TotalRemainingWorkload()
		}
		sumVariance += sim.WeightedVarianceRemainingWorkload()
		sumMaxOpTime += sim.MaxOperatingTime()
	}
	n := float64(len(scenarioNames))
	return []float64{sumWorkload / n, sumVariance / n, sumMaxOpTime / n}, nil
}
