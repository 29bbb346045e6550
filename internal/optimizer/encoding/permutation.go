package encoding

import (
	"strings"

	"golang.org/x/exp/rand"
)

// MultiPermutationVariable encodes n genes, each an independent permutation
// of the same item set — one ordered task-priority list per robot. Value is
// [][]string.
type MultiPermutationVariable struct {
	Items  []string
	NMulti int
}

// NewMultiPermutationVariable constructs a variable over items, producing
// nMulti independent permutations per sample.
func NewMultiPermutationVariable(items []string, nMulti int) *MultiPermutationVariable {
	return &MultiPermutationVariable{Items: append([]string(nil), items...), NMulti: nMulti}
}

func shuffled(rng *rand.Rand, items []string) []string {
	perm := append([]string(nil), items...)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}

// Sample returns NMulti independent random permutations of Items.
func (v *MultiPermutationVariable) Sample(rng *rand.Rand) interface{} {
	genes := make([][]string, v.NMulti)
	for i := range genes {
		genes[i] = shuffled(rng, v.Items)
	}
	return genes
}

// Mutate applies swap mutation to each permutation independently, with
// per-permutation probability 1/NMulti.
func (v *MultiPermutationVariable) Mutate(rng *rand.Rand, value interface{}) interface{} {
	genes := value.([][]string)
	p := 1.0 / float64(v.NMulti)
	mutated := make([][]string, len(genes))
	for i, perm := range genes {
		cp := append([]string(nil), perm...)
		if len(cp) >= 2 && rng.Float64() < p {
			a := rng.Intn(len(cp))
			b := rng.Intn(len(cp) - 1)
			if b >= a {
				b++
			}
			cp[a], cp[b] = cp[b], cp[a]
		}
		mutated[i] = cp
	}
	return mutated
}

func orderCrossover(rng *rand.Rand, p1, p2 []string) []string {
	size := len(p1)
	start := rng.Intn(size)
	end := rng.Intn(size)
	if start > end {
		start, end = end, start
	}
	child := make([]string, size)
	taken := make(map[string]bool, size)
	for i := start; i <= end; i++ {
		child[i] = p1[i]
		taken[p1[i]] = true
	}
	fillIdx := 0
	for i := 0; i < size; i++ {
		if i >= start && i <= end {
			continue
		}
		for fillIdx < len(p2) && taken[p2[fillIdx]] {
			fillIdx++
		}
		child[i] = p2[fillIdx]
		taken[p2[fillIdx]] = true
		fillIdx++
	}
	return child
}

// Crossover applies order crossover (OX) gene-by-gene, randomly choosing
// which parent donates the fixed slice for each permutation.
func (v *MultiPermutationVariable) Crossover(rng *rand.Rand, a, b interface{}) interface{} {
	genesA := a.([][]string)
	genesB := b.([][]string)
	child := make([][]string, v.NMulti)
	for i := 0; i < v.NMulti; i++ {
		p1, p2 := genesA[i], genesB[i]
		if rng.Float64() < 0.5 {
			p1, p2 = p2, p1
		}
		child[i] = orderCrossover(rng, p1, p2)
	}
	return child
}

// Equal compares genomes row by row, position by position: two multi-
// permutations are equal only if every row is the identical ordering.
func (v *MultiPermutationVariable) Equal(a, b interface{}) bool {
	return v.Hash(a) == v.Hash(b)
}

// Hash joins each row's items with commas and rows with a separator not
// expected in item names, giving a canonical digest two equal genomes
// always share.
func (v *MultiPermutationVariable) Hash(value interface{}) string {
	genes := value.([][]string)
	rows := make([]string, len(genes))
	for i, perm := range genes {
		rows[i] = strings.Join(perm, ",")
	}
	return strings.Join(rows, "|")
}

// Validate checks shape (NMulti permutations, each a permutation of Items).
func (v *MultiPermutationVariable) Validate(value interface{}) bool {
	genes, ok := value.([][]string)
	if !ok || len(genes) != v.NMulti {
		return false
	}
	reference := make(map[string]bool, len(v.Items))
	for _, it := range v.Items {
		reference[it] = true
	}
	for _, perm := range genes {
		if len(perm) != len(v.Items) {
			return false
		}
		seen := make(map[string]bool, len(perm))
		for _, it := range perm {
			if !reference[it] || seen[it] {
				return false
			}
			seen[it] = true
		}
	}
	return true
}
