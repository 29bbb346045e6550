package catalog

import (
	"sort"

	"github.com/pkg/errors"
)

// ValidateNoSharedModules enforces the core invariant that a module belongs
// to at most one robot's required set: no module name may appear in more
// than one robot's Component list.
func ValidateNoSharedModules(robots Robots) error {
	names := make([]string, 0, len(robots))
	for name := range robots {
		names = append(names, name)
	}
	sort.Strings(names)

	owner := make(map[string]string)
	for _, robotName := range names {
		for _, moduleName := range robots[robotName].Component {
			if prev, ok := owner[moduleName]; ok {
				return errors.Errorf("module %q is required by both %q and %q", moduleName, prev, robotName)
			}
			owner[moduleName] = robotName
		}
	}
	return nil
}

// ValidateTaskPriority checks that every robot's priority list is a
// permutation of the combined task set: no duplicates, no names outside
// taskNames, and every task named exactly once.
func ValidateTaskPriority(priority TaskPriority, taskNames map[string]bool) error {
	robotNames := make([]string, 0, len(priority))
	for name := range priority {
		robotNames = append(robotNames, name)
	}
	sort.Strings(robotNames)

	for _, robotName := range robotNames {
		list := priority[robotName]
		seen := make(map[string]bool, len(list))
		for _, taskName := range list {
			if !taskNames[taskName] {
				return errors.Errorf("task_priority: robot %q names unknown task %q", robotName, taskName)
			}
			if seen[taskName] {
				return errors.Errorf("task_priority: robot %q lists task %q more than once", robotName, taskName)
			}
			seen[taskName] = true
		}
		if len(seen) != len(taskNames) {
			return errors.Errorf("task_priority: robot %q's list is not a permutation of the task set (%d of %d named)", robotName, len(seen), len(taskNames))
		}
	}
	return nil
}
