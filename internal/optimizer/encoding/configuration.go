package encoding

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/Yuki-Tanigaki/modutask/internal/core"
)

// ConfigurationVariable encodes a variable-length list of robots, greedily
// sampled from a shared module pool. Value is []*core.Robot.
type ConfigurationVariable struct {
	Modules    map[string]*core.Module
	RobotTypes map[string]core.RobotType
}

// NewConfigurationVariable constructs a configuration variable over the
// given module pool and catalog of robot types.
func NewConfigurationVariable(modules map[string]*core.Module, robotTypes map[string]core.RobotType) *ConfigurationVariable {
	return &ConfigurationVariable{Modules: modules, RobotTypes: robotTypes}
}

func sortedModuleNames(modules map[string]*core.Module) []string {
	names := make([]string, 0, len(modules))
	for n := range modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedRobotTypeNames(types map[string]core.RobotType) []string {
	names := make([]string, 0, len(types))
	for n := range types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isUsed(m *core.Module, used map[*core.Module]bool) bool { return used[m] }

// sampleRobot greedily assembles one robot of a random type from currently
// unused ACTIVE modules, returning nil if the pool cannot satisfy that
// type's required multiset.
func (v *ConfigurationVariable) sampleRobot(rng *rand.Rand, existing []*core.Robot) *core.Robot {
	used := make(map[*core.Module]bool)
	for _, r := range existing {
		for _, m := range r.Required {
			used[m] = true
		}
	}
	typeNames := sortedRobotTypeNames(v.RobotTypes)
	if len(typeNames) == 0 {
		return nil
	}
	robotType := v.RobotTypes[typeNames[rng.Intn(len(typeNames))]]

	moduleTypeNames := make([]core.ModuleType, 0, len(robotType.RequiredModules))
	for mt := range robotType.RequiredModules {
		moduleTypeNames = append(moduleTypeNames, mt)
	}
	sort.Slice(moduleTypeNames, func(i, j int) bool { return moduleTypeNames[i].Name < moduleTypeNames[j].Name })

	var component []*core.Module
	for _, mt := range moduleTypeNames {
		required := robotType.RequiredModules[mt]
		var candidates []*core.Module
		for _, name := range sortedModuleNames(v.Modules) {
			m := v.Modules[name]
			if m.Type.Equal(mt) && m.IsActive() && !isUsed(m, used) {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) < required {
			return nil
		}
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		picked := candidates[:required]
		for _, m := range picked {
			used[m] = true
		}
		component = append(component, picked...)
	}

	coordinate := mostCommonCoordinate(component)
	robot, err := core.NewRobot(robotType, fmt.Sprintf("dummy-%d", len(existing)), coordinate, component)
	if err != nil {
		return nil
	}
	return robot
}

func mostCommonCoordinate(modules []*core.Module) core.Coordinate {
	counts := make(map[core.Coordinate]int)
	for _, m := range modules {
		counts[m.Coordinate]++
	}
	var best core.Coordinate
	bestCount := -1
	var keys []core.Coordinate
	for c := range counts {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})
	for _, c := range keys {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// Sample greedily assembles robots one at a time, each of a randomly chosen
// type, and stops at the first robot whose chosen type the remaining pool
// cannot satisfy. Other types are not tried at that point, so unused
// modules may remain that could still form a robot of another type.
func (v *ConfigurationVariable) Sample(rng *rand.Rand) interface{} {
	var robots []*core.Robot
	for {
		r := v.sampleRobot(rng, robots)
		if r == nil {
			break
		}
		robots = append(robots, r)
	}
	return robots
}

// cloneRobots rebuilds each robot from the live module pool by name, so the
// result shares module identity with v.Modules rather than a stale copy.
func (v *ConfigurationVariable) cloneRobots(value []*core.Robot) []*core.Robot {
	clone := make([]*core.Robot, 0, len(value))
	for _, r := range value {
		component := make([]*core.Module, 0, len(r.Required))
		for _, m := range r.Required {
			if live, ok := v.Modules[m.Name]; ok {
				component = append(component, live)
			} else {
				component = append(component, m)
			}
		}
		nr, err := core.NewRobot(r.Type, r.Name, r.Coordinate, component)
		if err != nil {
			continue
		}
		clone = append(clone, nr)
	}
	return clone
}

// Mutate removes one random robot and attempts to sample a replacement,
// then applies a module-swap mutation across two random robots.
func (v *ConfigurationVariable) Mutate(rng *rand.Rand, value interface{}) interface{} {
	mutated := v.cloneRobots(value.([]*core.Robot))
	if len(mutated) == 0 {
		return mutated
	}
	idx := rng.Intn(len(mutated))
	mutated = append(mutated[:idx], mutated[idx+1:]...)
	if nr := v.sampleRobot(rng, mutated); nr != nil {
		mutated = append(mutated, nr)
	}
	return v.mutateSwap(rng, mutated)
}

// mutateSwap picks two distinct random robots and exchanges one randomly
// chosen pair of same-type modules between them; if they have no modules of
// a common type, nothing changes.
func (v *ConfigurationVariable) mutateSwap(rng *rand.Rand, value []*core.Robot) []*core.Robot {
	mutated := v.cloneRobots(value)
	if len(mutated) < 2 {
		return mutated
	}
	i := rng.Intn(len(mutated))
	j := rng.Intn(len(mutated) - 1)
	if j >= i {
		j++
	}
	r1, r2 := mutated[i], mutated[j]

	type pair struct{ m1, m2 *core.Module }
	var pairs []pair
	for _, m1 := range r1.Required {
		for _, m2 := range r2.Required {
			if m1.Type.Equal(m2.Type) && m1 != m2 {
				pairs = append(pairs, pair{m1, m2})
			}
		}
	}
	if len(pairs) == 0 {
		return mutated
	}
	chosen := pairs[rng.Intn(len(pairs))]
	swapModule(r1, chosen.m1, chosen.m2)
	swapModule(r2, chosen.m2, chosen.m1)
	return mutated
}

func swapModule(r *core.Robot, remove, add *core.Module) {
	for i, m := range r.Required {
		if m == remove {
			r.Required[i] = add
			break
		}
	}
	for i, m := range r.Mounted {
		if m == remove {
			r.Mounted = append(r.Mounted[:i], r.Mounted[i+1:]...)
			break
		}
	}
	if add.IsActive() && add.Coordinate.EqualEps(r.Coordinate) {
		_ = r.MountModule(add)
	}
}

// Crossover replaces one robot of value1 with a same-type robot from
// value2, propagating the resulting module substitutions to every other
// robot in the offspring that happens to share the displaced modules.
func (v *ConfigurationVariable) Crossover(rng *rand.Rand, a, b interface{}) interface{} {
	offspring := v.cloneRobots(a.([]*core.Robot))
	opponent := v.cloneRobots(b.([]*core.Robot))
	if len(offspring) == 0 {
		return opponent
	}
	if len(opponent) == 0 {
		return offspring
	}

	idxA := rng.Intn(len(offspring))
	robotA := offspring[idxA]

	var sameType []*core.Robot
	for _, r := range opponent {
		if r.Type.Equal(robotA.Type) {
			sameType = append(sameType, r)
		}
	}
	if len(sameType) == 0 {
		return offspring
	}
	robotB := sameType[rng.Intn(len(sameType))]
	offspring[idxA] = robotB

	swapMap := make(map[*core.Module]*core.Module)
	candidate := append([]*core.Module(nil), robotA.Required...)
	for _, modB := range robotB.Required {
		found := -1
		for i, c := range candidate {
			if c == modB {
				found = i
				break
			}
		}
		if found >= 0 {
			candidate = append(candidate[:found], candidate[found+1:]...)
			continue
		}
		var sameTypeCandidates []int
		for i, c := range candidate {
			if c.Type.Equal(modB.Type) {
				sameTypeCandidates = append(sameTypeCandidates, i)
			}
		}
		if len(sameTypeCandidates) == 0 {
			continue
		}
		pick := sameTypeCandidates[rng.Intn(len(sameTypeCandidates))]
		swapMap[modB] = candidate[pick]
		candidate = append(candidate[:pick], candidate[pick+1:]...)
	}

	for i, r := range offspring {
		if i == idxA {
			continue
		}
		for oldModule, newModule := range swapMap {
			for k, m := range r.Required {
				if m == oldModule {
					r.Required[k] = newModule
					for mi, mm := range r.Mounted {
						if mm == oldModule {
							r.Mounted = append(r.Mounted[:mi], r.Mounted[mi+1:]...)
							break
						}
					}
					if newModule.IsActive() && newModule.Coordinate.EqualEps(r.Coordinate) {
						_ = r.MountModule(newModule)
					}
					break
				}
			}
		}
	}
	return offspring
}

// canonicalRobot renders a robot as its type name plus its sorted required
// module names, so genome comparison doesn't depend on the arbitrary
// "dummy-N" names Sample assigns.
func canonicalRobot(r *core.Robot) string {
	names := make([]string, len(r.Required))
	for i, m := range r.Required {
		names[i] = m.Name
	}
	sort.Strings(names)
	return r.Type.Name + "[" + strings.Join(names, ",") + "]"
}

// Equal compares configurations as unordered sets of canonical robots: two
// configurations are equal if they build the identical multiset of robot
// types from the identical module assignments, regardless of robot order
// or the incidental names Sample assigned them.
func (v *ConfigurationVariable) Equal(a, b interface{}) bool {
	return v.Hash(a) == v.Hash(b)
}

// Hash returns a canonical digest of value: each robot's canonical form,
// sorted so genome order never affects the result.
func (v *ConfigurationVariable) Hash(value interface{}) string {
	robots := value.([]*core.Robot)
	parts := make([]string, len(robots))
	for i, r := range robots {
		parts[i] = canonicalRobot(r)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// Validate checks that no module name is shared across robots.
func (v *ConfigurationVariable) Validate(value interface{}) bool {
	robots, ok := value.([]*core.Robot)
	if !ok {
		return false
	}
	seen := make(map[string]bool)
	for _, r := range robots {
		for _, m := range r.Required {
			if seen[m.Name] {
				return false
			}
			seen[m.Name] = true
		}
	}
	return true
}
