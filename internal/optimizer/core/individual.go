// Package core holds the optimizer's genome container: an Individual is a
// named set of encoding.Variable values plus its evaluated objective
// vector, rank and crowding distance.
package core

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/encoding"
)

// Individual is one member of a population: a map from variable name to its
// current genome value, plus NSGA-II bookkeeping. TraceID is for log and
// artifact correlation only — it must never participate in dominance or
// equality comparisons.
type Individual struct {
	TraceID string

	Values     map[string]interface{}
	Objectives []float64

	Rank     int
	Distance float64
}

// NewIndividual samples a fresh individual from the given variable set.
func NewIndividual(rng *rand.Rand, variables map[string]encoding.Variable) *Individual {
	values := make(map[string]interface{}, len(variables))
	for name, v := range variables {
		values[name] = v.Sample(rng)
	}
	return &Individual{TraceID: uuid.NewString(), Values: values}
}

// Dominates reports whether ind dominates other in a minimization sense:
// no worse in every objective, and strictly better in at least one.
func (ind *Individual) Dominates(other *Individual) bool {
	betterInAny := false
	for i := range ind.Objectives {
		if ind.Objectives[i] > other.Objectives[i] {
			return false
		}
		if ind.Objectives[i] < other.Objectives[i] {
			betterInAny = true
		}
	}
	return betterInAny
}

// Clone creates a shallow copy of ind with a fresh trace id; Values entries
// are replaced, not mutated, by subsequent crossover/mutation calls, so a
// shallow value copy here is sufficient.
func (ind *Individual) Clone() *Individual {
	values := make(map[string]interface{}, len(ind.Values))
	for k, v := range ind.Values {
		values[k] = v
	}
	return &Individual{
		TraceID: uuid.NewString(),
		Values:  values,
	}
}

// Equal reports whether ind and other encode the identical genome across
// every variable, deferring to each Variable's own notion of equality.
// TraceID, Objectives, Rank and Distance never participate.
func (ind *Individual) Equal(other *Individual, variables map[string]encoding.Variable) bool {
	return ind.Hash(variables) == other.Hash(variables)
}

// Hash returns a digest of ind's genome across every variable, with
// variable names visited in sorted order so the result is independent of
// map iteration order. Used by the NSGA-II driver to detect and demote
// duplicate individuals during truncation.
func (ind *Individual) Hash(variables map[string]encoding.Variable) string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(variables[name].Hash(ind.Values[name]))
		b.WriteByte(';')
	}
	return b.String()
}

// Population is an ordered collection of individuals.
type Population []*Individual
