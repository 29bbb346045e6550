package core

import (
	"sort"

	"github.com/pkg/errors"
)

// ChargeStation is a fixed point in space where robots can recharge.
type ChargeStation struct {
	Name          string
	Coordinate    Coordinate
	ChargingSpeed float64
}

// NewChargeStation validates and constructs a charge station.
func NewChargeStation(name string, coordinate Coordinate, chargingSpeed float64) (*ChargeStation, error) {
	if chargingSpeed < 0 {
		return nil, errors.Errorf("charge station %s: charging_speed must be non-negative, got %v", name, chargingSpeed)
	}
	return &ChargeStation{Name: name, Coordinate: coordinate, ChargingSpeed: chargingSpeed}, nil
}

// SimulationMap is the fixed set of charge stations available during a run.
type SimulationMap struct {
	ChargeStations map[string]*ChargeStation
}

// NewSimulationMap constructs a map from a list of stations, keyed by name.
func NewSimulationMap(stations []*ChargeStation) (*SimulationMap, error) {
	m := &SimulationMap{ChargeStations: make(map[string]*ChargeStation, len(stations))}
	for _, s := range stations {
		if _, exists := m.ChargeStations[s.Name]; exists {
			return nil, errors.Errorf("simulation map: duplicate charge station name %q", s.Name)
		}
		m.ChargeStations[s.Name] = s
	}
	return m, nil
}

// Nearest returns the charge station closest to c, breaking ties by name so
// the result is reproducible regardless of map iteration order. It returns
// nil if the map has no stations.
func (m *SimulationMap) Nearest(c Coordinate) *ChargeStation {
	names := make([]string, 0, len(m.ChargeStations))
	for name := range m.ChargeStations {
		names = append(names, name)
	}
	sort.Strings(names)

	var best *ChargeStation
	bestDist := 0.0
	for _, name := range names {
		s := m.ChargeStations[name]
		d := c.DistanceTo(s.Coordinate)
		if best == nil || d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}
