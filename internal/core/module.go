package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ModuleState is the lifecycle state of a Module.
type ModuleState int

const (
	ModuleActive ModuleState = iota
	ModuleError
)

func (s ModuleState) String() string {
	if s == ModuleActive {
		return "ACTIVE"
	}
	return "ERROR"
}

// ModuleType is an immutable module classification. Identity is Name.
type ModuleType struct {
	Name       string
	MaxBattery float64
}

// Equal compares module types by name, their identity key.
func (t ModuleType) Equal(other ModuleType) bool {
	return t.Name == other.Name
}

// Module is an indivisible resource with battery and wear, owned by at most
// one robot's required set.
type Module struct {
	Type          ModuleType
	Name          string
	Coordinate    Coordinate
	Battery       float64
	OperatingTime float64
	State         ModuleState
}

// NewModule constructs a module, validating the invariants from spec §3:
// battery in [0, max_battery], operating_time >= 0.
func NewModule(moduleType ModuleType, name string, coordinate Coordinate, battery, operatingTime float64, state ModuleState) (*Module, error) {
	if battery < 0 {
		return nil, errors.Errorf("module %s: battery must be non-negative, got %v", name, battery)
	}
	if battery > moduleType.MaxBattery {
		return nil, errors.Errorf("module %s: battery %v exceeds max_battery %v", name, battery, moduleType.MaxBattery)
	}
	if operatingTime < 0 {
		return nil, errors.Errorf("module %s: operating_time must be non-negative, got %v", name, operatingTime)
	}
	return &Module{
		Type:          moduleType,
		Name:          name,
		Coordinate:    coordinate,
		Battery:       battery,
		OperatingTime: operatingTime,
		State:         state,
	}, nil
}

// IsActive reports whether the module can be mounted or used.
func (m *Module) IsActive() bool {
	return m.State == ModuleActive
}

// SetBattery updates battery, enforcing the "ERROR modules are frozen"
// invariant and the [0, max] range.
func (m *Module) SetBattery(battery float64) error {
	if m.State == ModuleError {
		return errors.Errorf("module %s: attempt to mutate battery of an ERROR module", m.Name)
	}
	if battery < 0 {
		return errors.Errorf("module %s: battery must be non-negative, got %v", m.Name, battery)
	}
	if battery > m.Type.MaxBattery {
		return errors.Errorf("module %s: battery %v exceeds max_battery %v", m.Name, battery, m.Type.MaxBattery)
	}
	m.Battery = battery
	return nil
}

// AddOperatingTime increments operating time by delta (delta >= 0),
// enforcing monotonicity and the ERROR freeze invariant.
func (m *Module) AddOperatingTime(delta float64) error {
	if m.State == ModuleError {
		return errors.Errorf("module %s: attempt to mutate operating_time of an ERROR module", m.Name)
	}
	if delta < 0 {
		return errors.Errorf("module %s: operating_time delta must be non-negative, got %v", m.Name, delta)
	}
	m.OperatingTime += delta
	return nil
}

// SetCoordinate relocates the module; this is only called by the owning
// robot when it (or a transported payload) moves.
func (m *Module) SetCoordinate(c Coordinate) {
	m.Coordinate = c
}

// UpdateState recomputes ERROR/ACTIVE as a pure function of the currently
// active failure scenarios, every call: a single malfunction verdict from
// any scenario forces ERROR, otherwise the module is ACTIVE. This mirrors
// the module each step, not a one-way latch.
func (m *Module) UpdateState(scenarios []RiskScenario) {
	for _, scenario := range scenarios {
		if scenario.MalfunctionModule(m) {
			m.State = ModuleError
			return
		}
	}
	m.State = ModuleActive
}

func (m *Module) String() string {
	return fmt.Sprintf("Module(%s, %s, battery=%.2f/%.2f)", m.Name, m.State, m.Battery, m.Type.MaxBattery)
}

// RiskScenario decides, for a given module, whether it fails "now". It must
// be deterministically reconstructible from (name, seed) — see
// internal/risk for the concrete implementations.
type RiskScenario interface {
	// Name identifies the scenario for clone reproducibility diagnostics.
	Name() string
	// MalfunctionModule returns true if the module should transition to ERROR.
	MalfunctionModule(m *Module) bool
	// Clone returns an independent copy seeded identically, so that cloned
	// scenarios reproduce the exact same failure sequence as the original
	// given the same subsequent calls.
	Clone() RiskScenario
}
