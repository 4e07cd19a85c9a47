package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlandau/gridflow/field"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "scenario.config")
	assert.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname
}

func TestReadExampleConfig(t *testing.T) {
	config, err := ReadConfig(writeConfig(t, ExampleConfigFile))
	assert.NoError(t, err)

	assert.Equal(t, 32, config.Domain.CellsX)
	assert.Equal(t, 32, config.Domain.CellsY)
	assert.Equal(t, "closed", config.Domain.Boundary)
	assert.Equal(t, 100, config.Simulation.Steps)
	assert.InDelta(t, -9.81, config.Simulation.GravityY, 1e-12)
	assert.Equal(t, "auto", config.Solver.Method)
	assert.InDelta(t, 1e-5, config.Solver.RelTol, 1e-18)

	assert.Equal(t, field.Zero, config.Extrapolation())
	assert.Equal(t, []int{32, 32}, config.Resolution())
	assert.Equal(t, []float64{1, 1}, config.Bounds().Upper)

	obstacles := config.Obstacles()
	assert.Len(t, obstacles, 1)
	assert.Equal(t, 2, obstacles[0].Rank())
	assert.Equal(t, []float64{1}, obstacles[0].ValueAt([][]float64{{0.5, 0.3}}))
}

func TestReadConfigFillsDefaults(t *testing.T) {
	config, err := ReadConfig(writeConfig(t, `[domain]
SizeX = 2.0
SizeY = 1.0
CellsX = 16
CellsY = 8

[simulation]
Steps = 10
Dt = 0.05
`))
	assert.NoError(t, err)
	assert.Equal(t, "closed", config.Domain.Boundary)
	assert.Equal(t, 4, config.Simulation.ParticlesPerCell)
	assert.InDelta(t, 0.5, config.Simulation.FillMaxY, 1e-12)
	assert.Equal(t, "auto", config.Solver.Method)
	assert.InDelta(t, 1e-5, config.Solver.RelTol, 1e-18)
	assert.Empty(t, config.Obstacles())
}

func TestReadConfigBoundaryModes(t *testing.T) {
	base := `[domain]
SizeX = 1.0
SizeY = 1.0
CellsX = 8
CellsY = 8
Boundary = `
	tail := `

[simulation]
Steps = 1
Dt = 0.1
`
	config, err := ReadConfig(writeConfig(t, base+"open"+tail))
	assert.NoError(t, err)
	assert.Equal(t, field.Boundary, config.Extrapolation())

	config, err = ReadConfig(writeConfig(t, base+"periodic"+tail))
	assert.NoError(t, err)
	assert.Equal(t, field.Periodic, config.Extrapolation())

	_, err = ReadConfig(writeConfig(t, base+"diagonal"+tail))
	assert.Error(t, err)
}

func TestReadConfigRejectsBadValues(t *testing.T) {
	_, err := ReadConfig(writeConfig(t, `[domain]
SizeX = -1.0
SizeY = 1.0
CellsX = 8
CellsY = 8

[simulation]
Steps = 1
Dt = 0.1
`))
	assert.Error(t, err)

	_, err = ReadConfig(writeConfig(t, `[domain]
SizeX = 1.0
SizeY = 1.0
CellsX = 8
CellsY = 8

[simulation]
Steps = 1
Dt = 0.1

[obstacle "wall"]
Shape = box
LowerX = 0.5
LowerY = 0.0
UpperX = 0.25
UpperY = 1.0
`))
	assert.Error(t, err)
}
