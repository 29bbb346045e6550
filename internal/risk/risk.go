// Package risk implements the RiskScenario variants: seedable,
// reproducible stochastic malfunction decisions driven by a module's
// accumulated operating time.
package risk

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// ExponentialWear fails a module with probability
// 1 - exp(-failureRate * operating_time) each time it is asked, so modules
// that have run longer are monotonically more likely to fail. This is the
// scenario named directly in the catalog spec.
type ExponentialWear struct {
	name        string
	failureRate float64
	seed        uint64
	rng         *rand.Rand
}

// NewExponentialWear constructs a scenario seeded deterministically from
// seed; two scenarios built from the same (name, seed, failureRate) produce
// identical malfunction sequences given the same call order.
func NewExponentialWear(name string, failureRate float64, seed uint64) *ExponentialWear {
	return &ExponentialWear{
		name:        name,
		failureRate: failureRate,
		seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *ExponentialWear) Name() string { return s.name }

// MalfunctionModule draws one uniform sample and compares it against the
// exponential CDF evaluated at the module's current operating time.
func (s *ExponentialWear) MalfunctionModule(m *core.Module) bool {
	p := 1 - math.Exp(-s.failureRate*m.OperatingTime)
	return s.rng.Float64() < p
}

// Clone returns an independent scenario re-seeded from the same seed, so a
// cloned world's failure sequence is reproducible from (name, seed) alone
// rather than from the live generator state.
func (s *ExponentialWear) Clone() core.RiskScenario {
	return NewExponentialWear(s.name, s.failureRate, s.seed)
}

// SigmoidWear fails a module with probability given by a logistic curve
// centered at half of limit operating-time units: malfunction likelihood
// rises as operating_time approaches limit and beyond. sharpness controls
// the steepness of the transition.
type SigmoidWear struct {
	name      string
	sharpness float64
	limit     float64
	seed      uint64
	rng       *rand.Rand
}

// NewSigmoidWear constructs a sigmoid-wear scenario.
func NewSigmoidWear(name string, sharpness, limit float64, seed uint64) *SigmoidWear {
	return &SigmoidWear{
		name:      name,
		sharpness: sharpness,
		limit:     limit,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *SigmoidWear) Name() string { return s.name }

func (s *SigmoidWear) normalize(operatingTime float64) float64 {
	ratio := operatingTime / s.limit
	return 1 / (1 + math.Exp(-s.sharpness*(ratio-0.5)))
}

// MalfunctionModule draws one uniform sample and compares it against the
// normalized sigmoid value for the module's operating time.
func (s *SigmoidWear) MalfunctionModule(m *core.Module) bool {
	return s.rng.Float64() < s.normalize(m.OperatingTime)
}

// Clone returns an independent, identically-seeded scenario.
func (s *SigmoidWear) Clone() core.RiskScenario {
	return NewSigmoidWear(s.name, s.sharpness, s.limit, s.seed)
}
