package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// RobotState is derived from the robot's mounted components and battery.
type RobotState int

const (
	RobotActive RobotState = iota
	RobotNoEnergy
	RobotDefective
)

func (s RobotState) String() string {
	switch s {
	case RobotActive:
		return "ACTIVE"
	case RobotNoEnergy:
		return "NO_ENERGY"
	case RobotDefective:
		return "DEFECTIVE"
	default:
		return "UNKNOWN"
	}
}

// RobotType is an immutable robot classification.
type RobotType struct {
	Name              string
	RequiredModules   map[ModuleType]int
	Performance       map[PerformanceAttribute]float64
	PowerConsumption  float64
	RechargeTrigger   float64
}

// Equal compares robot types by name, their identity key.
func (t RobotType) Equal(other RobotType) bool {
	return t.Name == other.Name
}

// Robot is an agent in the system, assembled from a required multiset of
// Modules (component_required) of which a subset may currently be mounted
// (component_mounted).
type Robot struct {
	Type    RobotType
	Name    string
	Coordinate Coordinate

	// Required is the fixed design multiset; it never changes after
	// construction. Mounted is always a subset of Required by module
	// identity (pointer equality).
	Required []*Module
	Mounted  []*Module

	state RobotState
}

// NewRobot constructs a robot from its required module set. It validates
// that the cardinality of each module type in required matches
// RobotType.RequiredModules, mounts every required module that is already
// ACTIVE and coincident, and derives the initial state.
func NewRobot(robotType RobotType, name string, coordinate Coordinate, required []*Module) (*Robot, error) {
	counts := make(map[string]int)
	for _, m := range required {
		counts[m.Type.Name]++
	}
	for mt, want := range robotType.RequiredModules {
		if counts[mt.Name] != want {
			return nil, errors.Errorf("robot %s: required multiset mismatch for %s: got %d, type requires %d", name, mt.Name, counts[mt.Name], want)
		}
	}

	r := &Robot{
		Type:       robotType,
		Name:       name,
		Coordinate: coordinate,
		Required:   required,
	}
	for _, m := range required {
		if m.IsActive() && m.Coordinate.EqualEps(coordinate) {
			r.Mounted = append(r.Mounted, m)
		}
	}
	r.recomputeState()
	return r, nil
}

// State returns the robot's derived lifecycle state.
func (r *Robot) State() RobotState {
	return r.state
}

func (r *Robot) recomputeState() {
	if len(r.missingIdentities()) > 0 {
		r.state = RobotDefective
		return
	}
	if r.TotalBattery() < r.Type.PowerConsumption {
		r.state = RobotNoEnergy
		return
	}
	r.state = RobotActive
}

// missingIdentities returns the required modules not currently in Mounted,
// by pointer identity.
func (r *Robot) missingIdentities() []*Module {
	mountedSet := make(map[*Module]bool, len(r.Mounted))
	for _, m := range r.Mounted {
		mountedSet[m] = true
	}
	var missing []*Module
	for _, m := range r.Required {
		if !mountedSet[m] {
			missing = append(missing, m)
		}
	}
	return missing
}

// MissingComponents is the public, spec-named accessor for the modules the
// robot is designed to carry but does not currently have mounted.
func (r *Robot) MissingComponents() []*Module {
	return r.missingIdentities()
}

// TotalBattery sums battery over mounted modules.
func (r *Robot) TotalBattery() float64 {
	var sum float64
	for _, m := range r.Mounted {
		sum += m.Battery
	}
	return sum
}

// TotalMaxBattery sums max_battery over mounted modules.
func (r *Robot) TotalMaxBattery() float64 {
	var sum float64
	for _, m := range r.Mounted {
		sum += m.Type.MaxBattery
	}
	return sum
}

// IsBatteryFull reports whether every mounted module is at capacity.
func (r *Robot) IsBatteryFull() bool {
	return r.TotalBattery() == r.TotalMaxBattery()
}

// DrawBatteryPower subtracts PowerConsumption from mounted modules in
// reverse mounting order, fully draining each before moving to the next.
// It fails if total battery is insufficient.
func (r *Robot) DrawBatteryPower() error {
	if r.TotalBattery() < r.Type.PowerConsumption {
		return errors.Errorf("robot %s: insufficient battery to draw %v power", r.Name, r.Type.PowerConsumption)
	}
	left := r.Type.PowerConsumption
	for i := len(r.Mounted) - 1; i >= 0 && left > 0; i-- {
		m := r.Mounted[i]
		if m.Battery >= left {
			if err := m.SetBattery(m.Battery - left); err != nil {
				return err
			}
			left = 0
		} else {
			left -= m.Battery
			if err := m.SetBattery(0); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChargeBatteryPower fills mounted modules in mounting order, up to each
// module's capacity, with at most speed total power.
func (r *Robot) ChargeBatteryPower(speed float64) error {
	left := speed
	for _, m := range r.Mounted {
		if left <= 0 {
			break
		}
		room := m.Type.MaxBattery - m.Battery
		if room <= left {
			if err := m.SetBattery(m.Type.MaxBattery); err != nil {
				return err
			}
			left -= room
		} else {
			if err := m.SetBattery(m.Battery + left); err != nil {
				return err
			}
			left = 0
		}
	}
	return nil
}

// Travel consumes one step of power, then advances toward target by at most
// MOBILITY, moving every mounted module along with the robot.
func (r *Robot) Travel(target Coordinate) error {
	return r.TravelBy(target, r.Type.Performance[AttrMobility])
}

// TravelBy consumes one step of power, then advances toward target by at
// most maxDistance (which may be less than the robot's own MOBILITY, e.g.
// when moving as part of a convoy capped by a slower member), moving every
// mounted module along with the robot.
func (r *Robot) TravelBy(target Coordinate, maxDistance float64) error {
	if err := r.DrawBatteryPower(); err != nil {
		return errors.Wrapf(err, "robot %s: travel requires power", r.Name)
	}
	newCoord, _ := r.Coordinate.StepToward(target, maxDistance)
	r.setCoordinate(newCoord)
	return nil
}

// relocateTo consumes one step of power and moves the robot (and its
// mounted modules) to exactly c, regardless of its own MOBILITY. Used by
// convoy-style tasks where the task itself dictates how far the group
// moves this step.
func (r *Robot) relocateTo(c Coordinate) error {
	if err := r.DrawBatteryPower(); err != nil {
		return errors.Wrapf(err, "robot %s: relocation requires power", r.Name)
	}
	r.setCoordinate(c)
	return nil
}

func (r *Robot) setCoordinate(c Coordinate) {
	r.Coordinate = c
	for _, m := range r.Mounted {
		m.SetCoordinate(c)
	}
}

// Act consumes one step of power and increments operating_time of each
// mounted module by 1.
func (r *Robot) Act() error {
	if err := r.DrawBatteryPower(); err != nil {
		return errors.Wrapf(err, "robot %s: act requires power", r.Name)
	}
	for _, m := range r.Mounted {
		if err := m.AddOperatingTime(1); err != nil {
			return err
		}
	}
	return nil
}

// MountModule attaches m if it is ACTIVE, coincident with the robot, and a
// member of Required.
func (r *Robot) MountModule(m *Module) error {
	if !m.IsActive() {
		return errors.Errorf("robot %s: cannot mount non-ACTIVE module %s", r.Name, m.Name)
	}
	if !m.Coordinate.EqualEps(r.Coordinate) {
		return errors.Errorf("robot %s: cannot mount module %s at a different coordinate", r.Name, m.Name)
	}
	found := false
	for _, req := range r.Required {
		if req == m {
			found = true
			break
		}
	}
	if !found {
		return errors.Errorf("robot %s: module %s is not part of the required component set", r.Name, m.Name)
	}
	for _, mounted := range r.Mounted {
		if mounted == m {
			return nil // already mounted
		}
	}
	r.Mounted = append(r.Mounted, m)
	r.recomputeState()
	return nil
}

// UpdateState recomputes each mounted module's state against the given
// scenarios, drops newly-ERROR modules from Mounted, and recomputes the
// robot's own derived state.
func (r *Robot) UpdateState(scenarios []RiskScenario) {
	kept := r.Mounted[:0:0]
	for _, m := range r.Mounted {
		m.UpdateState(scenarios)
		if m.IsActive() {
			kept = append(kept, m)
		}
	}
	r.Mounted = kept
	r.recomputeState()
}

func (r *Robot) String() string {
	return fmt.Sprintf("Robot(%s, %s, pos=(%.2f,%.2f))", r.Name, r.state, r.Coordinate.X, r.Coordinate.Y)
}

// HasDuplicateModule reports whether any module in required appears more
// than once by pointer identity (defensive; construction already enforces
// the per-type counts).
func HasDuplicateModule(required []*Module) bool {
	seen := make(map[*Module]bool, len(required))
	for _, m := range required {
		if seen[m] {
			return true
		}
		seen[m] = true
	}
	return false
}
