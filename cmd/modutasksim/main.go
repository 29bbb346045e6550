// Command modutasksim is the thin wiring entry point for one optimizer run:
// it loads a property file and the catalogs it names, runs the
// configuration optimizer followed by the task-allocation optimizer, and
// writes the chosen representatives' objective vectors to stdout. It takes
// a single positional path argument via the standard flag package; it is
// not a command framework.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Yuki-Tanigaki/modutask/internal/catalog"
	"github.com/Yuki-Tanigaki/modutask/internal/cloning"
	"github.com/Yuki-Tanigaki/modutask/internal/core"
	"github.com/Yuki-Tanigaki/modutask/internal/obslog"
	optcore "github.com/Yuki-Tanigaki/modutask/internal/optimizer/core"
	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/encoding"
	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/nsga2"
	"github.com/Yuki-Tanigaki/modutask/internal/optimizer/objective"
	select_ "github.com/Yuki-Tanigaki/modutask/internal/optimizer/select"
	"github.com/Yuki-Tanigaki/modutask/internal/sim"
)

func main() {
	debug := flag.Bool("debug", false, "use a human-readable development logger instead of JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: modutasksim [-debug] <property-file>")
		os.Exit(2)
	}

	logger, err := obslog.New(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "modutasksim: logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(flag.Arg(0), logger); err != nil {
		logger.Error("modutasksim: run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(propertyPath string, logger *zap.Logger) error {
	prop, err := loadProperty(propertyPath)
	if err != nil {
		return err
	}

	world, err := loadWorld(prop)
	if err != nil {
		return err
	}
	logger.Info("loaded catalogs",
		zap.Int("robots", len(world.Robots)),
		zap.Int("tasks", len(world.Tasks)),
		zap.Int("scenarios", len(world.RiskScenarios)))

	configured, err := runConfigurationOptimizer(prop, world, logger)
	if err != nil {
		return errors.Wrap(err, "configuration optimizer")
	}
	logger.Info("configuration optimizer complete", zap.Int("representatives", len(configured)))

	allocated, err := runTaskAllocationOptimizer(prop, world, logger)
	if err != nil {
		return errors.Wrap(err, "task allocation optimizer")
	}
	logger.Info("task allocation optimizer complete", zap.Int("representatives", len(allocated)))

	for _, ind := range configured {
		fmt.Printf("configuration\t%s\t%v\n", ind.TraceID, ind.Objectives)
	}
	for _, ind := range allocated {
		fmt.Printf("task_allocation\t%s\t%v\n", ind.TraceID, ind.Objectives)
	}
	return nil
}

func loadProperty(path string) (catalog.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Property{}, errors.Wrap(err, "reading property file")
	}
	return catalog.DecodeProperty(data)
}

func readCatalog(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", path)
	}
	return data, nil
}

func loadWorld(prop catalog.Property) (*cloning.World, error) {
	moduleTypeData, err := readCatalog(prop.ModuleTypePath)
	if err != nil {
		return nil, err
	}
	moduleTypes, err := catalog.DecodeModuleTypes(moduleTypeData)
	if err != nil {
		return nil, err
	}

	moduleData, err := readCatalog(prop.ModulePath)
	if err != nil {
		return nil, err
	}
	modules, err := catalog.DecodeModules(moduleData)
	if err != nil {
		return nil, err
	}

	robotTypeData, err := readCatalog(prop.RobotTypePath)
	if err != nil {
		return nil, err
	}
	robotTypes, err := catalog.DecodeRobotTypes(robotTypeData)
	if err != nil {
		return nil, err
	}

	robotData, err := readCatalog(prop.RobotPath)
	if err != nil {
		return nil, err
	}
	robots, err := catalog.DecodeRobots(robotData)
	if err != nil {
		return nil, err
	}

	taskData, err := readCatalog(prop.TaskPath)
	if err != nil {
		return nil, err
	}
	tasks, err := catalog.DecodeTasks(taskData)
	if err != nil {
		return nil, err
	}

	taskDependencyData, err := readCatalog(prop.TaskDependencyPath)
	if err != nil {
		return nil, err
	}
	taskDependency, err := catalog.DecodeTaskDependency(taskDependencyData)
	if err != nil {
		return nil, err
	}

	riskData, err := readCatalog(prop.RiskScenarioPath)
	if err != nil {
		return nil, err
	}
	riskScenarios, err := catalog.DecodeRiskScenarios(riskData)
	if err != nil {
		return nil, err
	}

	mapData, err := readCatalog(prop.MapPath)
	if err != nil {
		return nil, err
	}
	simMap, err := catalog.DecodeMap(mapData)
	if err != nil {
		return nil, err
	}

	var taskPriority catalog.TaskPriority
	if prop.TaskPriorityPath != "" {
		priorityData, err := readCatalog(prop.TaskPriorityPath)
		if err != nil {
			return nil, err
		}
		taskPriority, err = catalog.DecodeTaskPriority(priorityData)
		if err != nil {
			return nil, err
		}
	}

	return catalog.Build(&catalog.Bundle{
		ModuleTypes:    moduleTypes,
		Modules:        modules,
		RobotTypes:     robotTypes,
		Robots:         robots,
		Tasks:          tasks,
		TaskDependency: taskDependency,
		RiskScenarios:  riskScenarios,
		Map:            simMap,
		TaskPriority:   taskPriority,
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigurationOptimizer(prop catalog.Property, world *cloning.World, logger *zap.Logger) (optcore.Population, error) {
	variable := encoding.NewConfigurationVariable(world.Modules, world.RobotTypes)
	variables := map[string]encoding.Variable{"robots": variable}

	evaluate := func(values map[string]interface{}) []float64 {
		return objective.Configuration(values["robots"].([]*core.Robot))
	}

	driver := nsga2.NewDriver(driverConfig(prop), variables, evaluate, logger.Named("nsga2.configuration"))
	final := driver.Run()
	fronts := nsga2.NonDominatedSort(final)
	if len(fronts) == 0 {
		return nil, nil
	}
	return select_.KMeansRepresentatives(fronts[0], prop.Optimizer.RepresentativeCount), nil
}

func runTaskAllocationOptimizer(prop catalog.Property, world *cloning.World, logger *zap.Logger) (optcore.Population, error) {
	robotNames := sortedKeys(world.Robots)
	taskNames := sortedKeys(world.Tasks)

	variable := encoding.NewMultiPermutationVariable(taskNames, len(robotNames))
	variables := map[string]encoding.Variable{"priority": variable}

	evaluate := func(values map[string]interface{}) []float64 {
		priorities := priorityMap(robotNames, values["priority"].([][]string))
		result, err := objective.TaskAllocation(prop.TrainingScenarios, prop.MaxStep, prop.ResidualWorkloadIncludesGenerated,
			func(scenarioName string) (objective.Simulation, error) {
				return buildScenarioSimulation(world, scenarioName, priorities)
			})
		if err != nil {
			logger.Warn("task allocation evaluation failed", zap.Error(err))
			return []float64{1e300, 1e300, 1e300}
		}
		return result
	}

	driver := nsga2.NewDriver(driverConfig(prop), variables, evaluate, logger.Named("nsga2.task_allocation"))
	final := driver.Run()
	fronts := nsga2.NonDominatedSort(final)
	if len(fronts) == 0 {
		return nil, nil
	}
	return select_.KMeansRepresentatives(fronts[0], prop.Optimizer.RepresentativeCount), nil
}

func priorityMap(robotNames []string, genes [][]string) map[string][]string {
	out := make(map[string][]string, len(robotNames))
	for i, name := range robotNames {
		if i < len(genes) {
			out[name] = genes[i]
		}
	}
	return out
}

func driverConfig(prop catalog.Property) nsga2.Config {
	return nsga2.Config{
		PopulationSize:       prop.Optimizer.PopulationSize,
		Generations:          prop.Optimizer.Generations,
		CrossoverProbability: prop.Optimizer.CrossoverProbability,
		MutationProbability:  prop.Optimizer.MutationProbability,
		TournamentSize:       prop.Optimizer.TournamentSize,
		Seed:                 prop.Optimizer.Seed,
	}
}

func buildScenarioSimulation(world *cloning.World, scenarioName string, priorities map[string][]string) (objective.Simulation, error) {
	clone, err := cloning.Clone(world)
	if err != nil {
		return nil, err
	}
	scenario, ok := clone.RiskScenarios[scenarioName]
	if !ok {
		return nil, errors.Errorf("unknown risk scenario %q", scenarioName)
	}
	return sim.New(clone.Robots, priorities, clone.Tasks, clone.SimulationMap, []core.RiskScenario{scenario}, clone.Modules)
}
