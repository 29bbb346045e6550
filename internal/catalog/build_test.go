package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalBundle() *Bundle {
	return &Bundle{
		ModuleTypes: ModuleTypes{"battery": {MaxBattery: 10}},
		Modules: Modules{
			"m1": {ModuleType: "battery", Coordinate: [2]float64{0, 0}, Battery: 10, State: "ACTIVE"},
		},
		RobotTypes: RobotTypes{
			"hauler": {
				RequiredModules: map[string]int{"battery": 1},
				Performance:     map[string]float64{"MOBILITY": 5, "MANUFACTURE": 3},
			},
		},
		Robots: Robots{
			"r1": {RobotType: "hauler", Coordinate: [2]float64{0, 0}, Component: []string{"m1"}},
		},
		Tasks: Tasks{
			"t1": {Class: "Manufacture", TotalWorkload: floatPtr(5)},
		},
		TaskDependency: TaskDependency{},
		RiskScenarios: RiskScenarios{
			"wear": {Class: "ExponentialWear", Seed: 1, FailureRate: floatPtr(0.1)},
		},
		Map: SimulationMap{
			"s1": {Coordinate: [2]float64{1, 1}, ChargingSpeed: 2},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestBuildMinimalBundleSucceeds(t *testing.T) {
	world, err := Build(minimalBundle())
	require.NoError(t, err)
	assert.Contains(t, world.Robots, "r1")
	assert.Contains(t, world.Tasks, "t1")
	assert.Contains(t, world.RiskScenarios, "wear")
	assert.Contains(t, world.SimulationMap.ChargeStations, "s1")
	assert.Empty(t, world.TaskPriorities)
}

func TestBuildWiresTaskDependencies(t *testing.T) {
	b := minimalBundle()
	b.Tasks["t2"] = TaskEntry{Class: "Manufacture", TotalWorkload: floatPtr(1)}
	b.TaskDependency = TaskDependency{"t1": []interface{}{"t2"}}

	world, err := Build(b)
	require.NoError(t, err)
	deps := world.Tasks["t2"].Dependencies()
	require.Len(t, deps, 1)
	assert.Equal(t, "t1", deps[0].Name())
}

func TestBuildRejectsSharedModules(t *testing.T) {
	b := minimalBundle()
	b.Robots["r2"] = RobotEntry{RobotType: "hauler", Component: []string{"m1"}}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildValidatesTaskPriorityWhenPresent(t *testing.T) {
	b := minimalBundle()
	b.TaskPriority = TaskPriority{"r1": {"t1", "extra"}}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildAcceptsValidTaskPriority(t *testing.T) {
	b := minimalBundle()
	b.TaskPriority = TaskPriority{"r1": {"t1"}}
	world, err := Build(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, world.TaskPriorities["r1"])
}

func TestBuildTransportTaskRequiresOriginDestinationResistance(t *testing.T) {
	b := minimalBundle()
	b.Tasks["bad"] = TaskEntry{Class: "Transport"}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildTransportTaskSucceeds(t *testing.T) {
	b := minimalBundle()
	origin := [2]float64{0, 0}
	dest := [2]float64{5, 0}
	b.Tasks["haul"] = TaskEntry{Class: "Transport", Origin: &origin, Destination: &dest, Resistance: floatPtr(1)}
	world, err := Build(b)
	require.NoError(t, err)
	assert.Contains(t, world.Tasks, "haul")
}

func TestBuildTransportModuleTaskRequiresKnownModule(t *testing.T) {
	b := minimalBundle()
	dest := [2]float64{5, 0}
	b.Tasks["move"] = TaskEntry{Class: "TransportModule", Destination: &dest, Resistance: floatPtr(1), Module: "ghost"}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildTransportModuleTaskSucceeds(t *testing.T) {
	b := minimalBundle()
	b.Modules["m2"] = ModuleEntry{ModuleType: "battery", State: "ACTIVE", Battery: 10}
	dest := [2]float64{5, 0}
	b.Tasks["move"] = TaskEntry{Class: "TransportModule", Destination: &dest, Resistance: floatPtr(1), Module: "m2"}
	world, err := Build(b)
	require.NoError(t, err)
	assert.Contains(t, world.Tasks, "move")
}

func TestBuildAssemblyTaskSucceeds(t *testing.T) {
	b := minimalBundle()
	b.Modules["m2"] = ModuleEntry{ModuleType: "battery", State: "ACTIVE", Battery: 10}
	b.Tasks["assemble"] = TaskEntry{
		Class: "Assembly", RobotType: "hauler", RobotName: "r2",
		RequiredComponents: []string{"m2"},
	}
	world, err := Build(b)
	require.NoError(t, err)
	assert.Contains(t, world.Tasks, "assemble")
}

func TestBuildUnknownTaskClassErrors(t *testing.T) {
	b := minimalBundle()
	b.Tasks["bad"] = TaskEntry{Class: "Teleport"}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildSigmoidWearRequiresSharpnessAndLimit(t *testing.T) {
	b := minimalBundle()
	b.RiskScenarios["bad"] = RiskScenarioEntry{Class: "SigmoidWear", Seed: 1}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildSigmoidWearSucceeds(t *testing.T) {
	b := minimalBundle()
	b.RiskScenarios["sig"] = RiskScenarioEntry{Class: "SigmoidWear", Seed: 1, Sharpness: floatPtr(4), Limit: floatPtr(100)}
	world, err := Build(b)
	require.NoError(t, err)
	assert.Contains(t, world.RiskScenarios, "sig")
}

func TestBuildUnknownModuleTypeErrors(t *testing.T) {
	b := minimalBundle()
	b.Modules["bad"] = ModuleEntry{ModuleType: "ghost", State: "ACTIVE"}
	_, err := Build(b)
	assert.Error(t, err)
}

func TestBuildUnknownRobotTypeErrors(t *testing.T) {
	b := minimalBundle()
	b.Robots["bad"] = RobotEntry{RobotType: "ghost"}
	_, err := Build(b)
	assert.Error(t, err)
}
