package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/flip"
	"github.com/mlandau/gridflow/geom"
	"github.com/mlandau/gridflow/io"
)

func main() {
	var (
		logPath, pprofPath string
		printExample       bool
	)

	flag.StringVar(&logPath, "Log", "",
		"Location to write log statements to. Default is stderr.")
	flag.StringVar(&pprofPath, "PProf", "",
		"Location to write profile to. Default is no profiling.")
	flag.BoolVar(&printExample, "ExampleConfig", false,
		"Print an example scenario file and exit.")

	flag.Parse()

	if printExample {
		fmt.Println(io.ExampleConfigFile)
		return
	}

	if logPath != "" {
		lf, err := os.Create(logPath)
		if err != nil {
			log.Fatalln(err.Error())
		}
		log.SetOutput(lf)
		defer lf.Close()
	}

	if pprofPath != "" {
		f, err := os.Create(pprofPath)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if flag.NArg() != 1 {
		log.Fatalf(
			"Usage: gridflow [flags] scenario.config " +
				"(run with -ExampleConfig for a template).",
		)
	}

	config, err := io.ReadConfig(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	run(config)
}

func run(config *io.Config) {
	bounds := config.Bounds()
	res := config.Resolution()
	extrap := config.Extrapolation()
	solve := config.Solve()
	obstacles := config.Obstacles()
	sim := &config.Simulation

	notAccessible := make([]geom.Geometry, len(obstacles))
	for i, o := range obstacles {
		notAccessible[i] = o
	}

	cloud := seedParticles(config)
	log.Printf("Seeded %d particles on a %dx%d grid.",
		len(cloud.Points), res[0], res[1])

	if config.Output.Enabled() {
		if err := os.MkdirAll(config.Output.Dir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	offset := 0.5 * bounds.MeanExtent() / float64(res[0])
	for step := 1; step <= sim.Steps; step++ {
		velocity := flip.VelocityToGrid(cloud, bounds, res, extrap)
		addGravity(velocity, sim.GravityY, sim.Dt)

		proj, err := flip.MakeIncompressible(velocity, cloud, obstacles, solve)
		if err != nil {
			log.Fatalf("Step %d: %s", step, err.Error())
		}

		cloud, err = flip.MapVelocityToParticles(
			cloud, proj.Velocity, proj.Occupied, velocity, sim.Viscosity,
		)
		if err != nil {
			log.Fatalf("Step %d: %s", step, err.Error())
		}

		cloud = flip.Advect(cloud, sim.Dt)
		cloud, err = flip.RespectBoundaries(cloud, notAccessible, offset)
		if err != nil {
			log.Fatalf("Step %d: %s", step, err.Error())
		}

		log.Printf("Step %d: %d solver iterations, max divergence %.3g.",
			step, proj.Iterations, maxAbs(proj.Divergence.Values))

		if config.Output.Enabled() && step%config.Output.Every == 0 {
			fname := filepath.Join(
				config.Output.Dir, fmt.Sprintf("snap_%04d.dat", step),
			)
			err := io.WriteSnapshotFile(
				fname, step, float64(step)*sim.Dt, cloud, res,
			)
			if err != nil {
				log.Fatalf("Step %d: %s", step, err.Error())
			}
		}
	}
}

// seedParticles fills every cell whose center lies in the configured fill
// band with jittered particles at rest.
func seedParticles(config *io.Config) *field.Cloud {
	bounds := config.Bounds()
	res := config.Resolution()
	sim := &config.Simulation
	dx := bounds.Size()
	dx[0] /= float64(res[0])
	dx[1] /= float64(res[1])

	points := [][]float64{}
	minY := sim.FillMinY * config.Domain.SizeY
	maxY := sim.FillMaxY * config.Domain.SizeY
	for i := 0; i < res[0]; i++ {
		for j := 0; j < res[1]; j++ {
			cy := (float64(j) + 0.5) * dx[1]
			if cy < minY || cy > maxY {
				continue
			}
			for p := 0; p < sim.ParticlesPerCell; p++ {
				points = append(points, []float64{
					(float64(i) + rand.Float64()) * dx[0],
					(float64(j) + rand.Float64()) * dx[1],
				})
			}
		}
	}
	values := make([][]float64, len(points))
	for i := range values {
		values[i] = make([]float64, 2)
	}
	return field.NewCloud(points, values, bounds.MeanExtent()*0.005, bounds)
}

func addGravity(velocity *field.StaggeredGrid, gy, dt float64) {
	for i := range velocity.Comp[1] {
		velocity.Comp[1][i] += gy * dt
	}
}

func maxAbs(vals []float64) float64 {
	max := 0.0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}
