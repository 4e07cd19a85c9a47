/*package io reads simulation scenario configuration files.*/
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/flip"
	"github.com/mlandau/gridflow/geom"
	"github.com/mlandau/gridflow/solver"
)

const ExampleConfigFile = `[domain]

# Extent of the simulation domain.
SizeX = 1.0
SizeY = 1.0

# Grid resolution.
CellsX = 32
CellsY = 32

# Boundary behavior of the velocity field. One of:
# [ closed | open | periodic ]
Boundary = closed

[simulation]

Steps = 100
Dt = 0.01

# Gravity along the y axis. Negative values pull downward.
GravityY = -9.81

# PIC weight of the velocity transfer, in [0, 1]. 1 is pure PIC, 0 is pure
# FLIP.
Viscosity = 0.05

# Particle seeding: ParticlesPerCell particles in every cell whose center
# lies between FillMinY and FillMaxY (fractions of the domain height).
ParticlesPerCell = 4
FillMinY = 0.0
FillMaxY = 0.5

[solver]

# Method can be "auto" or "CG".
Method = auto
RelTol = 1e-5
AbsTol = 0
MaxIterations = 1000

[output]

# Directory for binary particle snapshots. Omit Dir to disable output.
# Dir = snapshots
# Write a snapshot every Every steps.
Every = 10

# Obstacles are optional. Spheres take X, Y and Radius; boxes take LowerX,
# LowerY, UpperX and UpperY.
[obstacle "pillar"]
Shape = sphere
X = 0.5
Y = 0.3
Radius = 0.1`

type DomainConfig struct {
	SizeX, SizeY   float64
	CellsX, CellsY int
	Boundary       string
}

func (dom *DomainConfig) CheckInit() error {
	if dom.SizeX <= 0 || dom.SizeY <= 0 {
		return fmt.Errorf(
			"Need positive domain sizes, but got %g x %g.", dom.SizeX, dom.SizeY,
		)
	}
	if dom.CellsX <= 0 || dom.CellsY <= 0 {
		return fmt.Errorf(
			"Need positive cell counts, but got %d x %d.", dom.CellsX, dom.CellsY,
		)
	}
	switch dom.Boundary {
	case "":
		dom.Boundary = "closed"
	case "closed", "open", "periodic":
	default:
		return fmt.Errorf(
			"Boundary must be 'closed', 'open' or 'periodic', but is '%s'.",
			dom.Boundary,
		)
	}
	return nil
}

type SimulationConfig struct {
	Steps            int
	Dt               float64
	GravityY         float64
	Viscosity        float64
	ParticlesPerCell int
	FillMinY         float64
	FillMaxY         float64
}

func (sim *SimulationConfig) CheckInit() error {
	if sim.Steps <= 0 {
		return fmt.Errorf("Need a positive number of steps, but got %d.", sim.Steps)
	}
	if sim.Dt <= 0 {
		return fmt.Errorf("Need a positive time step, but got %g.", sim.Dt)
	}
	if sim.ParticlesPerCell == 0 {
		sim.ParticlesPerCell = 4
	} else if sim.ParticlesPerCell < 0 {
		return fmt.Errorf(
			"Need a positive particle count per cell, but got %d.",
			sim.ParticlesPerCell,
		)
	}
	if sim.FillMaxY == 0 {
		sim.FillMaxY = 0.5
	}
	if sim.FillMinY < 0 || sim.FillMaxY > 1 || sim.FillMinY >= sim.FillMaxY {
		return fmt.Errorf(
			"Fill range [%g, %g] must be an increasing sub-range of [0, 1].",
			sim.FillMinY, sim.FillMaxY,
		)
	}
	return nil
}

type SolverConfig struct {
	Method         string
	RelTol, AbsTol float64
	MaxIterations  int
}

func (sol *SolverConfig) CheckInit() error {
	if sol.Method == "" {
		sol.Method = "auto"
	}
	if sol.RelTol == 0 && sol.AbsTol == 0 {
		sol.RelTol = 1e-5
	}
	if sol.RelTol < 0 || sol.AbsTol < 0 {
		return fmt.Errorf(
			"Solver tolerances must not be negative, but are %g and %g.",
			sol.RelTol, sol.AbsTol,
		)
	}
	if sol.MaxIterations < 0 {
		return fmt.Errorf(
			"The solver iteration cap must not be negative, but is %d.",
			sol.MaxIterations,
		)
	}
	return nil
}

type OutputConfig struct {
	Dir   string
	Every int
}

func (out *OutputConfig) CheckInit() error {
	if out.Dir == "" {
		return nil
	}
	if out.Every == 0 {
		out.Every = 1
	} else if out.Every < 0 {
		return fmt.Errorf(
			"The snapshot interval must be positive, but is %d.", out.Every,
		)
	}
	return nil
}

// Enabled reports whether snapshots should be written at all.
func (out *OutputConfig) Enabled() bool { return out.Dir != "" }

type ObstacleConfig struct {
	Shape          string
	X, Y, Radius   float64
	LowerX, LowerY float64
	UpperX, UpperY float64
}

func (obs *ObstacleConfig) CheckInit(name string) error {
	switch obs.Shape {
	case "sphere":
		if obs.Radius <= 0 {
			return fmt.Errorf(
				"Need a positive radius for obstacle '%s'.", name,
			)
		}
	case "box":
		if obs.LowerX >= obs.UpperX || obs.LowerY >= obs.UpperY {
			return fmt.Errorf(
				"Obstacle '%s' needs Lower corners strictly below Upper corners.",
				name,
			)
		}
	default:
		return fmt.Errorf(
			"Shape of obstacle '%s' must be 'sphere' or 'box', but is '%s'.",
			name, obs.Shape,
		)
	}
	return nil
}

func (obs *ObstacleConfig) Geometry() geom.Geometry {
	if obs.Shape == "sphere" {
		return geom.NewSphere([]float64{obs.X, obs.Y}, obs.Radius)
	}
	return geom.NewBox(
		[]float64{obs.LowerX, obs.LowerY},
		[]float64{obs.UpperX, obs.UpperY},
	)
}

type Config struct {
	Domain     DomainConfig
	Simulation SimulationConfig
	Solver     SolverConfig
	Output     OutputConfig
	Obstacle   map[string]*ObstacleConfig
}

// ReadConfig parses and validates a scenario file.
func ReadConfig(fname string) (*Config, error) {
	config := &Config{}
	if err := gcfg.ReadFileInto(config, fname); err != nil {
		return nil, err
	}
	if err := config.Domain.CheckInit(); err != nil {
		return nil, err
	}
	if err := config.Simulation.CheckInit(); err != nil {
		return nil, err
	}
	if err := config.Solver.CheckInit(); err != nil {
		return nil, err
	}
	if err := config.Output.CheckInit(); err != nil {
		return nil, err
	}
	for name, obs := range config.Obstacle {
		if err := obs.CheckInit(name); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// Bounds returns the domain box.
func (config *Config) Bounds() *geom.Box {
	return geom.NewBox(
		[]float64{0, 0},
		[]float64{config.Domain.SizeX, config.Domain.SizeY},
	)
}

// Resolution returns the grid resolution.
func (config *Config) Resolution() []int {
	return []int{config.Domain.CellsX, config.Domain.CellsY}
}

// Extrapolation returns the velocity extrapolation matching the configured
// boundary behavior.
func (config *Config) Extrapolation() field.Extrapolation {
	switch config.Domain.Boundary {
	case "open":
		return field.Boundary
	case "periodic":
		return field.Periodic
	}
	return field.Zero
}

// Solve returns the configured pressure solve.
func (config *Config) Solve() *solver.Solve {
	solve := solver.NewSolve(config.Solver.Method, config.Solver.RelTol, config.Solver.AbsTol)
	solve.MaxIterations = config.Solver.MaxIterations
	solve.Gradient.MaxIterations = config.Solver.MaxIterations
	return solve
}

// Obstacles returns the configured obstacles.
func (config *Config) Obstacles() []flip.Obstacle {
	obstacles := make([]flip.Obstacle, 0, len(config.Obstacle))
	for _, obs := range config.Obstacle {
		obstacles = append(obstacles, flip.NewObstacle(obs.Geometry()))
	}
	return obstacles
}
