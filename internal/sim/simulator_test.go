package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

func buildSimulator(t *testing.T) *Simulator {
	t.Helper()
	mt := core.ModuleType{Name: "arm", MaxBattery: 10}
	m1, err := core.NewModule(mt, "m1", core.Coordinate{}, 10, 1, core.ModuleActive)
	require.NoError(t, err)
	rt := core.RobotType{
		Name:            "hauler",
		RequiredModules: map[core.ModuleType]int{mt: 1},
		Performance:     map[core.PerformanceAttribute]float64{core.AttrManufacture: 5, core.AttrMobility: 5},
		PowerConsumption: 1,
		RechargeTrigger:  1,
	}
	r1, err := core.NewRobot(rt, "r1", core.Coordinate{}, []*core.Module{m1})
	require.NoError(t, err)

	task, err := core.NewManufacture("t1", core.Coordinate{}, 2, 0, nil)
	require.NoError(t, err)

	// "needed" starts away from the target's coordinate so NewRobot does not
	// auto-mount it, leaving the assembly with one unit of real work.
	required, err := core.NewModule(mt, "needed", core.Coordinate{X: 50}, 10, 0, core.ModuleActive)
	require.NoError(t, err)
	assembly, err := core.NewAssembly("assemble:r2", rt, "r2", core.Coordinate{}, []*core.Module{required}, 0, nil)
	require.NoError(t, err)

	// spare is never mounted on any robot, so it only shows up in
	// MaxOperatingTime if the full module registry is scanned.
	spare, err := core.NewModule(mt, "spare", core.Coordinate{}, 10, 5, core.ModuleActive)
	require.NoError(t, err)

	station, err := core.NewChargeStation("s1", core.Coordinate{X: 100}, 2)
	require.NoError(t, err)
	simMap, err := core.NewSimulationMap([]*core.ChargeStation{station})
	require.NoError(t, err)

	modules := map[string]*core.Module{"m1": m1, "needed": required, "spare": spare}
	s, err := New(map[string]*core.Robot{"r1": r1}, map[string][]string{"r1": {"t1"}},
		map[string]core.Task{"t1": task, "assemble:r2": assembly}, simMap, nil, modules)
	require.NoError(t, err)
	return s
}

func TestStepRunsAgentTaskChargeEndStepInOrder(t *testing.T) {
	s := buildSimulator(t)
	require.NoError(t, s.Step())

	task := s.Tasks["t1"].(*core.Manufacture)
	assert.Greater(t, task.CompletedWorkload(), 0.0)
	assert.Equal(t, "WORK", s.Agents["r1"].State.String())
}

func TestRunExecutesUpToMaxStep(t *testing.T) {
	s := buildSimulator(t)
	require.NoError(t, s.Run(5))
	task := s.Tasks["t1"].(*core.Manufacture)
	assert.True(t, task.IsCompleted())
}

func TestTotalRemainingWorkloadExcludesGeneratedTasks(t *testing.T) {
	s := buildSimulator(t)
	base := s.TotalRemainingWorkload()
	all := s.TotalRemainingWorkloadAll()
	assert.Less(t, base, all)
	assert.Equal(t, 2.0, base)
}

func TestMaxOperatingTimeScansFullModuleRegistry(t *testing.T) {
	s := buildSimulator(t)
	// spare is never mounted on any robot (operating_time=5), while the
	// only mounted module has operating_time=1: the max must come from the
	// full registry, not just Mounted modules on live agents.
	assert.Equal(t, 5.0, s.MaxOperatingTime())
}

func TestWeightedVarianceRemainingWorkloadIsNonNegative(t *testing.T) {
	s := buildSimulator(t)
	v := s.WeightedVarianceRemainingWorkload()
	assert.GreaterOrEqual(t, v, 0.0)
}
