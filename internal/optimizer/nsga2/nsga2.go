// Package nsga2 implements the elitist multi-objective genetic algorithm
// driving both the configuration optimizer and the task-allocation
// optimizer: fast non-dominated sort, crowding distance, tournament
// selection and generational replacement.
package nsga2

import (
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	optcore "github.com/Yuki-Tanigaki/modutask/internal/optimizer/core"
	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/encoding"
	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/rng"
)

// NonDominatedSort partitions population into fronts, assigning Rank on
// each individual as it goes.
func NonDominatedSort(population optcore.Population) []optcore.Population {
	n := len(population)
	dominated := make([][]int, n)
	domCount := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if population[i].Dominates(population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if population[j].Dominates(population[i]) {
				domCount[i]++
			}
		}
	}

	var fronts []optcore.Population
	current := optcore.Population{}
	currentIdx := []int{}
	for i := 0; i < n; i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			current = append(current, population[i])
			currentIdx = append(currentIdx, i)
		}
	}
	fronts = append(fronts, current)

	rank := 0
	for len(current) > 0 {
		var next optcore.Population
		var nextIdx []int
		for _, idx := range currentIdx {
			for _, d := range dominated[idx] {
				domCount[d]--
				if domCount[d] == 0 {
					population[d].Rank = rank + 1
					next = append(next, population[d])
					nextIdx = append(nextIdx, d)
				}
			}
		}
		rank++
		if len(next) > 0 {
			fronts = append(fronts, next)
		}
		current = next
		currentIdx = nextIdx
	}
	return fronts
}

// demoteDuplicates finds individuals whose genome is identical to one
// already seen earlier in front order and moves every such duplicate into
// a new, worst-ranked front appended at the end. Truncation fills fronts
// in order, so duplicates are always the first individuals dropped.
func demoteDuplicates(fronts []optcore.Population, variables map[string]encoding.Variable) []optcore.Population {
	seen := make(map[string]bool)
	deduped := make([]optcore.Population, len(fronts))
	var duplicates optcore.Population
	for i, front := range fronts {
		var kept optcore.Population
		for _, ind := range front {
			h := ind.Hash(variables)
			if seen[h] {
				duplicates = append(duplicates, ind)
				continue
			}
			seen[h] = true
			kept = append(kept, ind)
		}
		deduped[i] = kept
	}
	if len(duplicates) == 0 {
		return deduped
	}
	worstRank := len(deduped)
	for _, ind := range duplicates {
		ind.Rank = worstRank
	}
	return append(deduped, duplicates)
}

// CrowdingDistance assigns each individual in front a crowding distance
// over its own objective space, mutating Distance in place.
func CrowdingDistance(front optcore.Population) {
	if len(front) <= 2 {
		for _, ind := range front {
			ind.Distance = math.Inf(1)
		}
		return
	}
	for _, ind := range front {
		ind.Distance = 0
	}
	numObjectives := len(front[0].Objectives)
	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(i, j int) bool { return front[i].Objectives[m] < front[j].Objectives[m] })
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)
		span := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if span == 0 {
			continue
		}
		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / span
		}
	}
}

// TournamentSelect picks the best of tournamentSize random contestants by
// (rank, crowding distance).
func TournamentSelect(rnd *rand.Rand, population optcore.Population, tournamentSize int) *optcore.Individual {
	if tournamentSize < 2 {
		tournamentSize = 2
	}
	best := population[rnd.Intn(len(population))]
	for i := 1; i < tournamentSize; i++ {
		contestant := population[rnd.Intn(len(population))]
		if contestant.Rank < best.Rank || (contestant.Rank == best.Rank && contestant.Distance > best.Distance) {
			best = contestant
		}
	}
	return best
}

// Config holds the algorithm's tunable parameters.
type Config struct {
	PopulationSize       int
	Generations          int
	CrossoverProbability float64
	MutationProbability  float64
	TournamentSize       int
	Seed                 uint64
}

// Evaluator computes the objective vector for a given individual's values.
// It never returns an error: an infeasible configuration is represented by
// +Inf objectives, not a failed evaluation.
type Evaluator func(values map[string]interface{}) []float64

// Driver runs the generational loop over a fixed variable set.
type Driver struct {
	Config    Config
	Variables map[string]encoding.Variable
	Evaluate  Evaluator
	Logger    *zap.Logger

	manager *rng.Manager
}

// NewDriver constructs a driver. A nil Logger falls back to a no-op logger.
func NewDriver(cfg Config, variables map[string]encoding.Variable, evaluate Evaluator, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		Config:    cfg,
		Variables: variables,
		Evaluate:  evaluate,
		Logger:    logger,
		manager:   rng.NewManager(cfg.Seed),
	}
}

func (d *Driver) evaluateAll(population optcore.Population) {
	for _, ind := range population {
		ind.Objectives = d.Evaluate(ind.Values)
	}
}

// Run executes the full generational loop and returns the final population.
func (d *Driver) Run() optcore.Population {
	d.Logger.Info("nsga2: starting evolution",
		zap.Int("population_size", d.Config.PopulationSize),
		zap.Int("generations", d.Config.Generations))

	population := make(optcore.Population, d.Config.PopulationSize)
	for i := range population {
		population[i] = optcore.NewIndividual(d.manager.Next(), d.Variables)
	}
	d.evaluateAll(population)

	for gen := 0; gen < d.Config.Generations; gen++ {
		offspring := d.generateOffspring(population)
		d.evaluateAll(offspring)

		combined := append(append(optcore.Population{}, population...), offspring...)
		fronts := NonDominatedSort(combined)
		fronts = demoteDuplicates(fronts, d.Variables)

		next := make(optcore.Population, 0, d.Config.PopulationSize)
		frontIdx := 0
		for frontIdx < len(fronts) && len(next)+len(fronts[frontIdx]) <= d.Config.PopulationSize {
			CrowdingDistance(fronts[frontIdx])
			next = append(next, fronts[frontIdx]...)
			frontIdx++
		}
		if len(next) < d.Config.PopulationSize && frontIdx < len(fronts) {
			CrowdingDistance(fronts[frontIdx])
			remaining := fronts[frontIdx]
			sort.Slice(remaining, func(i, j int) bool { return remaining[i].Distance > remaining[j].Distance })
			next = append(next, remaining[:d.Config.PopulationSize-len(next)]...)
		}
		population = next

		if gen%10 == 0 {
			d.Logger.Debug("nsga2: generation complete", zap.Int("generation", gen))
		}
	}

	d.Logger.Info("nsga2: evolution complete")
	return population
}

// generateOffspring produces PopulationSize children via tournament
// selection, crossover and mutation, applied independently per variable.
func (d *Driver) generateOffspring(population optcore.Population) optcore.Population {
	offspring := make(optcore.Population, 0, d.Config.PopulationSize)
	rnd := d.manager.Next()
	for len(offspring) < d.Config.PopulationSize {
		parent1 := TournamentSelect(rnd, population, d.Config.TournamentSize)
		parent2 := TournamentSelect(rnd, population, d.Config.TournamentSize)

		child := parent1.Clone()
		for name, variable := range d.Variables {
			childValue := parent1.Values[name]
			if rnd.Float64() < d.Config.CrossoverProbability {
				childValue = variable.Crossover(rnd, parent1.Values[name], parent2.Values[name])
			}
			if rnd.Float64() < d.Config.MutationProbability {
				childValue = variable.Mutate(rnd, childValue)
			}
			if !variable.Validate(childValue) {
				childValue = parent1.Values[name]
			}
			child.Values[name] = childValue
		}
		offspring = append(offspring, child)
	}
	return offspring
}
