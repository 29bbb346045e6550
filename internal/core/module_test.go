package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModuleValidation(t *testing.T) {
	mt := ModuleType{Name: "battery-pack", MaxBattery: 100}

	_, err := NewModule(mt, "m1", Coordinate{}, -1, 0, ModuleActive)
	assert.Error(t, err)

	_, err = NewModule(mt, "m1", Coordinate{}, 200, 0, ModuleActive)
	assert.Error(t, err)

	_, err = NewModule(mt, "m1", Coordinate{}, 10, -1, ModuleActive)
	assert.Error(t, err)

	m, err := NewModule(mt, "m1", Coordinate{}, 10, 0, ModuleActive)
	require.NoError(t, err)
	assert.True(t, m.IsActive())
}

func TestModuleSetBatteryFreezesOnError(t *testing.T) {
	mt := ModuleType{Name: "sensor", MaxBattery: 50}
	m, err := NewModule(mt, "m1", Coordinate{}, 50, 0, ModuleError)
	require.NoError(t, err)

	err = m.SetBattery(10)
	assert.Error(t, err)

	err = m.AddOperatingTime(1)
	assert.Error(t, err)
}

func TestModuleUpdateStateReevaluatesEveryCall(t *testing.T) {
	mt := ModuleType{Name: "arm", MaxBattery: 10}
	m, err := NewModule(mt, "m1", Coordinate{}, 10, 0, ModuleActive)
	require.NoError(t, err)

	m.UpdateState([]RiskScenario{alwaysFail{}})
	assert.Equal(t, ModuleError, m.State)

	// UpdateState is a pure re-evaluation against the given scenarios each
	// call, not a one-way latch: no scenarios means it recovers to ACTIVE.
	m.UpdateState(nil)
	assert.Equal(t, ModuleActive, m.State)

	m.UpdateState([]RiskScenario{alwaysFail{}})
	assert.Equal(t, ModuleError, m.State)
}

type alwaysFail struct{}

func (alwaysFail) Name() string                    { return "always-fail" }
func (alwaysFail) MalfunctionModule(*Module) bool  { return true }
func (alwaysFail) Clone() RiskScenario             { return alwaysFail{} }
