package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ns ...string) map[string]bool {
	m := make(map[string]bool, len(ns))
	for _, n := range ns {
		m[n] = true
	}
	return m
}

func TestDependenciesFlatListForm(t *testing.T) {
	raw := TaskDependency{
		"base": []interface{}{"dependent"},
	}
	deps, err := Dependencies(raw, names("base", "dependent"))
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, deps["dependent"])
	assert.Empty(t, deps["base"])
}

func TestDependenciesNestedListAndMapForm(t *testing.T) {
	raw := TaskDependency{
		"base": []interface{}{
			map[string]interface{}{
				"middle": []interface{}{"leaf"},
			},
		},
	}
	deps, err := Dependencies(raw, names("base", "middle", "leaf"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"base"}, deps["middle"])
	assert.ElementsMatch(t, []string{"base", "middle"}, deps["leaf"])
}

func TestDependenciesNestedMapForm(t *testing.T) {
	raw := TaskDependency{
		"base": map[string]interface{}{
			"dependent": nil,
		},
	}
	deps, err := Dependencies(raw, names("base", "dependent"))
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, deps["dependent"])
}

func TestDependenciesRejectsUnknownTaskName(t *testing.T) {
	raw := TaskDependency{"base": []interface{}{"ghost"}}
	_, err := Dependencies(raw, names("base"))
	assert.Error(t, err)
}

func TestDependenciesRejectsCycle(t *testing.T) {
	raw := TaskDependency{
		"a": []interface{}{"b"},
		"b": []interface{}{"a"},
	}
	_, err := Dependencies(raw, names("a", "b"))
	assert.Error(t, err)
}

func TestDependenciesEmptyRawLeavesAllTasksIndependent(t *testing.T) {
	deps, err := Dependencies(TaskDependency{}, names("a", "b"))
	require.NoError(t, err)
	assert.Empty(t, deps["a"])
	assert.Empty(t, deps["b"])
}
