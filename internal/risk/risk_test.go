package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

func testModule(t *testing.T, operatingTime float64) *core.Module {
	t.Helper()
	mt := core.ModuleType{Name: "arm", MaxBattery: 10}
	m, err := core.NewModule(mt, "m1", core.Coordinate{}, 10, operatingTime, core.ModuleActive)
	require.NoError(t, err)
	return m
}

func TestExponentialWearFreshModuleNeverFails(t *testing.T) {
	s := NewExponentialWear("wear", 0.5, 42)
	fresh := testModule(t, 0)
	assert.False(t, s.MalfunctionModule(fresh))
}

func TestExponentialWearCloneReproducesSequence(t *testing.T) {
	s := NewExponentialWear("wear", 0.2, 7)
	clone := s.Clone()

	m := testModule(t, 5)
	m2 := testModule(t, 5)

	var original, replay []bool
	for i := 0; i < 20; i++ {
		original = append(original, s.MalfunctionModule(m))
		replay = append(replay, clone.MalfunctionModule(m2))
	}
	assert.Equal(t, original, replay)
}

func TestSigmoidWearNormalize(t *testing.T) {
	s := NewSigmoidWear("sigmoid", 4, 100, 1)
	atHalf := s.normalize(50)
	assert.InDelta(t, 0.5, atHalf, 1e-9)

	low := s.normalize(0)
	high := s.normalize(100)
	assert.Less(t, low, atHalf)
	assert.Greater(t, high, atHalf)
}

func TestSigmoidWearCloneReproducesSequence(t *testing.T) {
	s := NewSigmoidWear("sigmoid", 4, 100, 99)
	clone := s.Clone()
	m := testModule(t, 40)
	m2 := testModule(t, 40)

	for i := 0; i < 20; i++ {
		assert.Equal(t, s.MalfunctionModule(m), clone.MalfunctionModule(m2))
	}
}

func TestNameAccessors(t *testing.T) {
	assert.Equal(t, "wear", NewExponentialWear("wear", 0.1, 1).Name())
	assert.Equal(t, "sig", NewSigmoidWear("sig", 1, 10, 1).Name())
}
