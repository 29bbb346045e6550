package catalog

import (
	"sort"

	"github.com/pkg/errors"
)

// Dependencies flattens the recursive dep -> dependent mapping in raw into
// a map from each task name to the sorted names of its transitive
// dependencies (its ancestors in the dep->dependent graph). It rejects any
// edge naming a task outside taskNames and any cycle.
func Dependencies(raw TaskDependency, taskNames map[string]bool) (map[string][]string, error) {
	children := make(map[string]map[string]bool)

	addEdge := func(from, to string) error {
		if !taskNames[from] {
			return errors.Errorf("task_dependency: unknown task name %q", from)
		}
		if !taskNames[to] {
			return errors.Errorf("task_dependency: unknown task name %q", to)
		}
		if children[from] == nil {
			children[from] = make(map[string]bool)
		}
		children[from][to] = true
		if children[to] == nil {
			children[to] = make(map[string]bool)
		}
		return nil
	}

	var walk func(name string, content interface{}) error
	walk = func(name string, content interface{}) error {
		if children[name] == nil {
			children[name] = make(map[string]bool)
		}
		switch c := content.(type) {
		case nil:
			return nil
		case []interface{}:
			for _, item := range c {
				switch it := item.(type) {
				case map[string]interface{}:
					for childName, childContent := range it {
						if err := addEdge(name, childName); err != nil {
							return err
						}
						if err := walk(childName, childContent); err != nil {
							return err
						}
					}
				case string:
					if err := addEdge(name, it); err != nil {
						return err
					}
				default:
					return errors.Errorf("task_dependency: unexpected list entry under %q", name)
				}
			}
			return nil
		case map[string]interface{}:
			for childName, childContent := range c {
				if err := addEdge(name, childName); err != nil {
					return err
				}
				if err := walk(childName, childContent); err != nil {
					return err
				}
			}
			return nil
		default:
			return errors.Errorf("task_dependency: unexpected content under %q", name)
		}
	}

	for name, content := range raw {
		if !taskNames[name] {
			return nil, errors.Errorf("task_dependency: unknown task name %q", name)
		}
		if children[name] == nil {
			children[name] = make(map[string]bool)
		}
		if err := walk(name, content); err != nil {
			return nil, err
		}
	}

	return ancestorsFromChildren(children)
}

// ancestorsFromChildren computes, for every node, the sorted set of nodes
// that can reach it (its dependencies), via a Kahn topological sort that
// also serves as the cycle check.
func ancestorsFromChildren(children map[string]map[string]bool) (map[string][]string, error) {
	inDegree := make(map[string]int, len(children))
	for n := range children {
		if _, ok := inDegree[n]; !ok {
			inDegree[n] = 0
		}
	}
	for _, cs := range children {
		for to := range cs {
			inDegree[to]++
		}
	}

	var queue []string
	for n, d := range inDegree {
		if d == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	ancestors := make(map[string]map[string]bool, len(inDegree))
	for n := range inDegree {
		ancestors[n] = make(map[string]bool)
	}

	visited := 0
	for len(queue) > 0 {
		sort.Strings(queue)
		n := queue[0]
		queue = queue[1:]
		visited++

		var ready []string
		for to := range children[n] {
			for a := range ancestors[n] {
				ancestors[to][a] = true
			}
			ancestors[to][n] = true
			inDegree[to]--
			if inDegree[to] == 0 {
				ready = append(ready, to)
			}
		}
		queue = append(queue, ready...)
	}

	if visited != len(inDegree) {
		return nil, errors.New("task_dependency: cyclic dependency detected")
	}

	result := make(map[string][]string, len(ancestors))
	for n, set := range ancestors {
		list := make([]string, 0, len(set))
		for a := range set {
			list = append(list, a)
		}
		sort.Strings(list)
		result[n] = list
	}
	return result, nil
}
