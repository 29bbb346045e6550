// Package catalog defines the YAML document shapes that describe a run:
// module types, modules, robot types, robots, tasks, task dependencies,
// risk scenarios, the charge-station map, task priorities and the property
// file that ties the rest together. Decoding is a thin wrapper over
// gopkg.in/yaml.v3; turning a decoded bundle into live core entities is
// Build, in build.go. Reading the documents from disk and writing result
// artifacts back out is left to callers (external collaborators own the
// storage layer).
package catalog

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ModuleTypeEntry mirrors one module_type document value.
type ModuleTypeEntry struct {
	MaxBattery float64 `yaml:"maxBattery"`
}

// ModuleTypes is the decoded module_type catalog, name to entry.
type ModuleTypes map[string]ModuleTypeEntry

// ModuleEntry mirrors one module document value.
type ModuleEntry struct {
	ModuleType    string     `yaml:"moduleType"`
	Coordinate    [2]float64 `yaml:"coordinate"`
	Battery       float64    `yaml:"battery"`
	OperatingTime float64    `yaml:"operatingTime"`
	State         string     `yaml:"state"`
}

// Modules is the decoded module catalog, name to entry.
type Modules map[string]ModuleEntry

// RobotTypeEntry mirrors one robot_type document value.
type RobotTypeEntry struct {
	RequiredModules  map[string]int    `yaml:"requiredModules"`
	Performance      map[string]float64 `yaml:"performance"`
	PowerConsumption float64           `yaml:"powerConsumption"`
	RechargeTrigger  float64           `yaml:"rechargeTrigger"`
}

// RobotTypes is the decoded robot_type catalog, name to entry.
type RobotTypes map[string]RobotTypeEntry

// RobotEntry mirrors one robot document value. Component lists the names of
// the modules required by this robot, in no particular order; ownership
// (each module belongs to at most one robot) is checked by
// ValidateNoSharedModules, not by decoding.
type RobotEntry struct {
	RobotType  string     `yaml:"robotType"`
	Coordinate [2]float64 `yaml:"coordinate"`
	Component  []string   `yaml:"component"`
}

// Robots is the decoded robot catalog, name to entry.
type Robots map[string]RobotEntry

// TaskEntry mirrors one task document value. Fields beyond Class and
// Coordinate are variant-specific; pointers distinguish "absent" from the
// zero value so Build can tell a missing field from an explicit zero.
type TaskEntry struct {
	Class               string             `yaml:"class"`
	Coordinate          [2]float64         `yaml:"coordinate,omitempty"`
	RequiredPerformance map[string]float64 `yaml:"requiredPerformance,omitempty"`
	CompletedWorkload   float64            `yaml:"completedWorkload,omitempty"`

	// Manufacture
	TotalWorkload *float64 `yaml:"totalWorkload,omitempty"`

	// Transport
	Origin      *[2]float64 `yaml:"origin,omitempty"`
	Destination *[2]float64 `yaml:"destination,omitempty"`
	Resistance  *float64    `yaml:"resistance,omitempty"`

	// TransportModule
	Module string `yaml:"module,omitempty"`

	// Assembly
	RobotType          string   `yaml:"robotType,omitempty"`
	RobotName          string   `yaml:"robotName,omitempty"`
	RequiredComponents []string `yaml:"requiredComponents,omitempty"`
}

// Tasks is the decoded task catalog, name to entry.
type Tasks map[string]TaskEntry

// TaskDependency is the raw recursive dep -> dependent mapping, decoded
// as-is: values are either a nested map[string]interface{}, a list mixing
// strings and single-key maps, or nil. See Dependencies in dependency.go
// for turning this into a flat ancestor map.
type TaskDependency map[string]interface{}

// RiskScenarioEntry mirrors one risk_scenario document value. Which of the
// variant fields apply depends on Class ("ExponentialWear" or
// "SigmoidWear").
type RiskScenarioEntry struct {
	Class       string   `yaml:"class"`
	Seed        uint64   `yaml:"seed"`
	FailureRate *float64 `yaml:"failureRate,omitempty"`
	Sharpness   *float64 `yaml:"sharpness,omitempty"`
	Limit       *float64 `yaml:"limit,omitempty"`
}

// RiskScenarios is the decoded risk_scenario catalog, name to entry.
type RiskScenarios map[string]RiskScenarioEntry

// MapEntry mirrors one map document value (a charge station).
type MapEntry struct {
	Coordinate    [2]float64 `yaml:"coordinate"`
	ChargingSpeed float64    `yaml:"chargingSpeed"`
}

// SimulationMap is the decoded map catalog, station name to entry.
type SimulationMap map[string]MapEntry

// TaskPriority is the decoded, optional task_priority catalog: robot name
// to an ordered permutation over the combined task set.
type TaskPriority map[string][]string

// OptimizerProperty holds the NSGA-II hyperparameters selected by the
// property file.
type OptimizerProperty struct {
	PopulationSize       int     `yaml:"populationSize"`
	Generations          int     `yaml:"generations"`
	Seed                 uint64  `yaml:"seed"`
	RepresentativeCount  int     `yaml:"representativeCount"`
	CrossoverProbability float64 `yaml:"crossoverProbability"`
	MutationProbability  float64 `yaml:"mutationProbability"`
	TournamentSize       int     `yaml:"tournamentSize"`
}

// Property is the single top-level document: it selects the other eight
// catalogs by path, sets run-wide parameters, and names output locations.
type Property struct {
	ModuleTypePath     string `yaml:"moduleTypePath"`
	ModulePath         string `yaml:"modulePath"`
	RobotTypePath      string `yaml:"robotTypePath"`
	RobotPath          string `yaml:"robotPath"`
	TaskPath           string `yaml:"taskPath"`
	TaskDependencyPath string `yaml:"taskDependencyPath"`
	RiskScenarioPath   string `yaml:"riskScenarioPath"`
	MapPath            string `yaml:"mapPath"`
	TaskPriorityPath   string `yaml:"taskPriorityPath,omitempty"`

	MaxStep             int      `yaml:"maxStep"`
	TrainingScenarios   []string `yaml:"trainingScenarios"`
	ValidationScenarios []string `yaml:"validationScenarios"`

	// ResidualWorkloadIncludesGenerated selects which of
	// sim.Simulator's two residual-workload accessors feeds the
	// task-allocation objective (spec Open Question (a)).
	ResidualWorkloadIncludesGenerated bool `yaml:"residualWorkloadIncludesGenerated,omitempty"`

	Optimizer OptimizerProperty `yaml:"optimizer"`

	OutputDirectory string `yaml:"outputDirectory"`
}

// Bundle groups every decoded catalog a run needs. Callers assemble one by
// decoding each document named in a Property and are responsible for
// reading the bytes (file, embed, network — catalog does not open files).
type Bundle struct {
	ModuleTypes    ModuleTypes
	Modules        Modules
	RobotTypes     RobotTypes
	Robots         Robots
	Tasks          Tasks
	TaskDependency TaskDependency
	RiskScenarios  RiskScenarios
	Map            SimulationMap
	TaskPriority   TaskPriority // nil if the optional catalog was absent
}

func decode[T any](data []byte) (T, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, errors.Wrap(err, "catalog: decode")
	}
	return v, nil
}

// DecodeModuleTypes decodes a module_type document.
func DecodeModuleTypes(data []byte) (ModuleTypes, error) { return decode[ModuleTypes](data) }

// DecodeModules decodes a module document.
func DecodeModules(data []byte) (Modules, error) { return decode[Modules](data) }

// DecodeRobotTypes decodes a robot_type document.
func DecodeRobotTypes(data []byte) (RobotTypes, error) { return decode[RobotTypes](data) }

// DecodeRobots decodes a robot document.
func DecodeRobots(data []byte) (Robots, error) { return decode[Robots](data) }

// DecodeTasks decodes a task document.
func DecodeTasks(data []byte) (Tasks, error) { return decode[Tasks](data) }

// DecodeTaskDependency decodes a task_dependency document.
func DecodeTaskDependency(data []byte) (TaskDependency, error) { return decode[TaskDependency](data) }

// DecodeRiskScenarios decodes a risk_scenario document.
func DecodeRiskScenarios(data []byte) (RiskScenarios, error) { return decode[RiskScenarios](data) }

// DecodeMap decodes a map document.
func DecodeMap(data []byte) (SimulationMap, error) { return decode[SimulationMap](data) }

// DecodeTaskPriority decodes an (optional) task_priority document.
func DecodeTaskPriority(data []byte) (TaskPriority, error) { return decode[TaskPriority](data) }

// DecodeProperty decodes the property file.
func DecodeProperty(data []byte) (Property, error) { return decode[Property](data) }
