// Package encoding implements the genome variable types used by the
// task-allocation and configuration optimizers: sample, mutate, crossover
// and validate, each driven by an explicit *rand.Rand so runs are
// reproducible.
package encoding

import "golang.org/x/exp/rand"

// Variable is the contract every genome component satisfies. Value is
// opaque to the optimizer core; only the Variable that produced it knows
// how to sample, mutate, crossover and validate it.
type Variable interface {
	Sample(rng *rand.Rand) interface{}
	Mutate(rng *rand.Rand, value interface{}) interface{}
	Crossover(rng *rand.Rand, a, b interface{}) interface{}
	Validate(value interface{}) bool
	// Equal reports whether a and b are the same genome value, independent
	// of any incidental ordering that Sample/Mutate/Crossover don't treat
	// as significant.
	Equal(a, b interface{}) bool
	// Hash returns a canonical string digest of value such that two values
	// hash equal iff Equal reports true for them. Used for duplicate
	// detection in the NSGA-II truncation step.
	Hash(value interface{}) string
}
