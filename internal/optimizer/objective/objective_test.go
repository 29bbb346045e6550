package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

func activeRobot(t *testing.T, rt core.RobotType, name string, c core.Coordinate) *core.Robot {
	t.Helper()
	var required []*core.Module
	for mt, n := range rt.RequiredModules {
		for i := 0; i < n; i++ {
			m, err := core.NewModule(mt, name+mt.Name+string(rune('a'+i)), c, mt.MaxBattery, 3, core.ModuleActive)
			require.NoError(t, err)
			required = append(required, m)
		}
	}
	r, err := core.NewRobot(rt, name, c, required)
	require.NoError(t, err)
	return r
}

func TestConfigurationFeasibleFleetScoresFiniteObjectives(t *testing.T) {
	mt := core.ModuleType{Name: "arm", MaxBattery: 10}
	rt := core.RobotType{
		Name:            "hauler",
		RequiredModules: map[core.ModuleType]int{mt: 1},
		Performance: map[core.PerformanceAttribute]float64{
			core.AttrTransport: 2, core.AttrManufacture: 1, core.AttrMobility: 5,
		},
	}
	r := activeRobot(t, rt, "r1", core.Coordinate{X: 1, Y: 1})
	objs := Configuration([]*core.Robot{r})
	require.Len(t, objs, 5)
	for _, v := range objs {
		assert.False(t, math.IsInf(v, 1))
	}
	assert.Equal(t, -2.0, objs[0])
	assert.Equal(t, -1.0, objs[1])
	assert.Equal(t, -5.0, objs[2])
}

func TestConfigurationNoActiveRobotIsInfeasible(t *testing.T) {
	objs := Configuration(nil)
	for _, v := range objs {
		assert.True(t, math.IsInf(v, 1))
	}
}

type fakeSimulation struct {
	workload, workloadAll, variance, maxOpTime float64
}

func (f *fakeSimulation) Run(maxStep int) error                   { return nil }
func (f *fakeSimulation) TotalRemainingWorkload() float64         { return f.workload }
func (f *fakeSimulation) TotalRemainingWorkloadAll() float64      { return f.workloadAll }
func (f *fakeSimulation) WeightedVarianceRemainingWorkload() float64 { return f.variance }
func (f *fakeSimulation) MaxOperatingTime() float64               { return f.maxOpTime }

func TestTaskAllocationAveragesAcrossScenarios(t *testing.T) {
	sims := map[string]*fakeSimulation{
		"s1": {workload: 10, workloadAll: 20, variance: 1, maxOpTime: 5},
		"s2": {workload: 30, workloadAll: 40, variance: 3, maxOpTime: 7},
	}
	build := func(name string) (Simulation, error) { return sims[name], nil }

	result, err := TaskAllocation([]string{"s1", "s2"}, 10, false, build)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 2, 6}, result)
}

func TestTaskAllocationIncludeGeneratedSelectsAllWorkload(t *testing.T) {
	sims := map[string]*fakeSimulation{
		"s1": {workload: 10, workloadAll: 20, variance: 1, maxOpTime: 5},
	}
	build := func(name string) (Simulation, error) { return sims[name], nil }

	result, err := TaskAllocation([]string{"s1"}, 10, true, build)
	require.NoError(t, err)
	assert.Equal(t, 20.0, result[0])
}

func TestTaskAllocationEmptyScenarioListReturnsZero(t *testing.T) {
	result, err := TaskAllocation(nil, 10, false, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, result)
}
