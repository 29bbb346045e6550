package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestMultiPermutationSampleIsValid(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b", "c", "d"}, 3)
	rng := rand.New(rand.NewSource(1))
	value := v.Sample(rng)
	assert.True(t, v.Validate(value))
	genes := value.([][]string)
	assert.Len(t, genes, 3)
	for _, perm := range genes {
		assert.ElementsMatch(t, v.Items, perm)
	}
}

func TestMultiPermutationMutatePreservesValidity(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b", "c"}, 5)
	rng := rand.New(rand.NewSource(2))
	value := v.Sample(rng)
	mutated := v.Mutate(rng, value)
	assert.True(t, v.Validate(mutated))
}

func TestMultiPermutationCrossoverProducesPermutations(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b", "c", "d", "e"}, 2)
	rng := rand.New(rand.NewSource(3))
	a := v.Sample(rng)
	b := v.Sample(rng)
	child := v.Crossover(rng, a, b)
	assert.True(t, v.Validate(child))
}

func TestMultiPermutationValidateRejectsWrongShape(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b"}, 2)
	assert.False(t, v.Validate([][]string{{"a", "b"}}))
	assert.False(t, v.Validate([][]string{{"a", "a"}, {"a", "b"}}))
	assert.False(t, v.Validate("not-a-permutation"))
}

func TestMultiPermutationEqualComparesRowsPositionally(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b", "c"}, 2)
	same1 := [][]string{{"a", "b", "c"}, {"c", "b", "a"}}
	same2 := [][]string{{"a", "b", "c"}, {"c", "b", "a"}}
	reordered := [][]string{{"c", "b", "a"}, {"a", "b", "c"}}
	assert.True(t, v.Equal(same1, same2))
	assert.False(t, v.Equal(same1, reordered))
}

func TestMultiPermutationHashMatchesIffEqual(t *testing.T) {
	v := NewMultiPermutationVariable([]string{"a", "b", "c"}, 2)
	a := [][]string{{"a", "b", "c"}, {"c", "b", "a"}}
	b := [][]string{{"a", "b", "c"}, {"c", "b", "a"}}
	c := [][]string{{"a", "c", "b"}, {"c", "b", "a"}}
	assert.Equal(t, v.Hash(a), v.Hash(b))
	assert.NotEqual(t, v.Hash(a), v.Hash(c))
}
