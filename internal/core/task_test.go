package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeRobotAt(t *testing.T, name string, c Coordinate, performance map[PerformanceAttribute]float64) *Robot {
	t.Helper()
	mt := ModuleType{Name: "battery", MaxBattery: 10}
	m, err := NewModule(mt, name+"-module", c, 10, 0, ModuleActive)
	require.NoError(t, err)
	rt := RobotType{
		Name:             "type-" + name,
		RequiredModules:  map[ModuleType]int{mt: 1},
		Performance:      performance,
		PowerConsumption: 1,
		RechargeTrigger:  5,
	}
	r, err := NewRobot(rt, name, c, []*Module{m})
	require.NoError(t, err)
	require.Equal(t, RobotActive, r.State())
	return r
}

func TestTaskHeaderAssignRobotStrictCoordinate(t *testing.T) {
	task, err := NewManufacture("t1", Coordinate{X: 1, Y: 1}, 5, 0, nil)
	require.NoError(t, err)

	elsewhere := activeRobotAt(t, "r1", Coordinate{}, map[PerformanceAttribute]float64{AttrManufacture: 1})
	assert.Error(t, task.AssignRobot(elsewhere))

	here := activeRobotAt(t, "r2", Coordinate{X: 1, Y: 1}, map[PerformanceAttribute]float64{AttrManufacture: 1})
	assert.NoError(t, task.AssignRobot(here))
}

func TestManufactureUpdateRequiresPerformance(t *testing.T) {
	task, err := NewManufacture("t1", Coordinate{}, 2, 0, map[PerformanceAttribute]float64{AttrManufacture: 2})
	require.NoError(t, err)

	weak := activeRobotAt(t, "r1", Coordinate{}, map[PerformanceAttribute]float64{AttrManufacture: 1})
	require.NoError(t, task.AssignRobot(weak))
	progressed, err := task.Update()
	require.NoError(t, err)
	assert.False(t, progressed)
	assert.Equal(t, 0.0, task.CompletedWorkload())

	strong := activeRobotAt(t, "r2", Coordinate{}, map[PerformanceAttribute]float64{AttrManufacture: 1})
	require.NoError(t, task.AssignRobot(strong))
	progressed, err = task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.Equal(t, 1.0, task.CompletedWorkload())
}

func TestManufactureCompletes(t *testing.T) {
	task, err := NewManufacture("t1", Coordinate{}, 1, 0, nil)
	require.NoError(t, err)
	r := activeRobotAt(t, "r1", Coordinate{}, nil)
	require.NoError(t, task.AssignRobot(r))

	progressed, err := task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.True(t, task.IsCompleted())

	task.ReleaseRobots()
	progressed, err = task.Update()
	require.NoError(t, err)
	assert.False(t, progressed)
}

func TestTransportAdvancesConvoyAtSlowestMember(t *testing.T) {
	origin := Coordinate{X: 0, Y: 0}
	dest := Coordinate{X: 10, Y: 0}
	task, err := NewTransport("t1", origin, dest, 2, 0, nil)
	require.NoError(t, err)
	// distance 10 scaled by resistance 2.
	assert.Equal(t, 20.0, task.TotalWorkload())

	fast := activeRobotAt(t, "fast", origin, map[PerformanceAttribute]float64{AttrMobility: 8})
	slow := activeRobotAt(t, "slow", origin, map[PerformanceAttribute]float64{AttrMobility: 2})
	require.NoError(t, task.AssignRobot(fast))
	require.NoError(t, task.AssignRobot(slow))

	progressed, err := task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	// adjusted speed = min(8,2)/resistance(2) = 1
	assert.InDelta(t, 1.0, task.Coordinate().DistanceTo(origin), 1e-9)
	assert.Equal(t, task.Coordinate(), fast.Coordinate)
	assert.Equal(t, task.Coordinate(), slow.Coordinate)
	assert.InDelta(t, 2.0, task.CompletedWorkload(), 1e-9)
}

func TestTransportNoRobotsNoProgress(t *testing.T) {
	task, err := NewTransport("t1", Coordinate{}, Coordinate{X: 5}, 1, 0, nil)
	require.NoError(t, err)
	progressed, err := task.Update()
	require.NoError(t, err)
	assert.False(t, progressed)
}

func TestTransportModuleCarriesModuleCoordinate(t *testing.T) {
	mt := ModuleType{Name: "payload", MaxBattery: 0}
	payload, err := NewModule(mt, "payload-1", Coordinate{X: 0, Y: 0}, 0, 0, ModuleActive)
	require.NoError(t, err)

	task, err := NewTransportModule("t1", payload, Coordinate{X: 4, Y: 0}, 1, 0, nil)
	require.NoError(t, err)

	carrier := activeRobotAt(t, "carrier", Coordinate{}, map[PerformanceAttribute]float64{AttrMobility: 10})
	require.NoError(t, task.AssignRobot(carrier))

	progressed, err := task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.True(t, task.IsCompleted())
	assert.Equal(t, Coordinate{X: 4, Y: 0}, payload.Coordinate)
}

func TestAssemblyMountsOneComponentPerStep(t *testing.T) {
	mt := ModuleType{Name: "arm", MaxBattery: 5}
	origin := Coordinate{}
	elsewhere := Coordinate{X: 10, Y: 10}
	m1, err := NewModule(mt, "arm-1", elsewhere, 5, 0, ModuleActive)
	require.NoError(t, err)
	m2, err := NewModule(mt, "arm-2", elsewhere, 5, 0, ModuleActive)
	require.NoError(t, err)

	rt := RobotType{
		Name:            "builder",
		RequiredModules: map[ModuleType]int{mt: 2},
		Performance:     map[PerformanceAttribute]float64{},
	}
	// m1, m2 start away from origin, so NewRobot's auto-mount-coincident
	// behavior does not apply to either of them: both remain missing until
	// Update() relocates and mounts them one at a time.
	task, err := NewAssembly("assemble-1", rt, "built-1", origin, []*Module{m1, m2}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, task.TotalWorkload())
	assert.Nil(t, task.Result())

	m1.SetCoordinate(origin)
	progressed, err := task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.Equal(t, 1.0, task.CompletedWorkload())

	m2.SetCoordinate(origin)
	progressed, err = task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.True(t, task.IsCompleted())
	require.NotNil(t, task.Result())
	assert.Len(t, task.Result().Mounted, 2)
}

func TestChargeDeliversPowerAndNeverCompletes(t *testing.T) {
	station, err := NewChargeStation("s1", Coordinate{}, 4)
	require.NoError(t, err)
	task, err := NewCharge("charge:s1", station)
	require.NoError(t, err)

	mt := ModuleType{Name: "battery", MaxBattery: 10}
	m, err := NewModule(mt, "m1", Coordinate{}, 0, 0, ModuleActive)
	require.NoError(t, err)
	rt := RobotType{Name: "drone", RequiredModules: map[ModuleType]int{mt: 1}, PowerConsumption: 1}
	r, err := NewRobot(rt, "r1", Coordinate{}, []*Module{m})
	require.NoError(t, err)
	require.Equal(t, RobotNoEnergy, r.State())

	// Charge.Update has no preconditions, but AssignRobot still requires
	// RobotActive, so give the robot enough battery to be active first.
	require.NoError(t, m.SetBattery(1))
	r.UpdateState(nil)

	require.NoError(t, task.AssignRobot(r))
	progressed, err := task.Update()
	require.NoError(t, err)
	assert.True(t, progressed)
	assert.False(t, task.IsCompleted())
	assert.Equal(t, 4.0, task.CompletedWorkload())
}
