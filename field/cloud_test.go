package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloudOccupancyCentered(t *testing.T) {
	c := NewCloud(
		[][]float64{{0.1, 0.1}, {0.15, 0.12}, {0.9, 0.9}},
		nil, 0.01, unitSquare(),
	)
	occ := c.OccupancyCentered(unitSquare(), []int{4, 4}, Zero)
	assert.Equal(t, 1.0, occ.At(0, []int{0, 0}))
	assert.Equal(t, 1.0, occ.At(0, []int{3, 3}))
	// Two particles in one cell still give an indicator of 1.
	sum := 0.0
	for _, v := range occ.Values {
		sum += v
	}
	assert.Equal(t, 2.0, sum)
}

func TestCloudOccupancyStaggered(t *testing.T) {
	c := NewCloud([][]float64{{0.4, 0.4}}, nil, 0.01, unitSquare())
	occ := c.OccupancyStaggered(unitSquare(), []int{4, 4}, Zero)
	// The particle sits in cell (1, 1) and marks both faces on each axis.
	assert.Equal(t, 1.0, occ.CompAt(0, 0, []int{1, 1}))
	assert.Equal(t, 1.0, occ.CompAt(0, 0, []int{2, 1}))
	assert.Equal(t, 1.0, occ.CompAt(0, 1, []int{1, 1}))
	assert.Equal(t, 1.0, occ.CompAt(0, 1, []int{1, 2}))
	assert.Equal(t, 0.0, occ.CompAt(0, 0, []int{0, 1}))
}

func TestCloudOccupancyClampsStrays(t *testing.T) {
	c := NewCloud([][]float64{{-0.2, 1.7}}, nil, 0.01, unitSquare())
	occ := c.OccupancyCentered(unitSquare(), []int{4, 4}, Zero)
	assert.Equal(t, 1.0, occ.At(0, []int{0, 3}))
}

func TestCloudOccupancyPeriodicSeam(t *testing.T) {
	c := NewCloud([][]float64{{0.95, 0.375}}, nil, 0.01, unitSquare())
	occ := c.OccupancyStaggered(unitSquare(), []int{4, 4}, Periodic)
	// The particle sits in the last cell column; the seam face it marks is
	// stored twice and both copies must agree.
	assert.Equal(t, 1.0, occ.CompAt(0, 0, []int{3, 1}))
	assert.Equal(t, 1.0, occ.CompAt(0, 0, []int{4, 1}))
	assert.Equal(t, 1.0, occ.CompAt(0, 0, []int{0, 1}))
	assert.Equal(t, 0.0, occ.CompAt(0, 0, []int{2, 1}))
}

func TestCloudOccupancyPeriodicWrapsStrays(t *testing.T) {
	c := NewCloud([][]float64{{-0.1, 0.5}}, nil, 0.01, unitSquare())
	occ := c.OccupancyCentered(unitSquare(), []int{4, 4}, Periodic)
	// A point just past the lower edge belongs to the last cell, not the
	// first.
	assert.Equal(t, 1.0, occ.At(0, []int{3, 2}))
	assert.Equal(t, 0.0, occ.At(0, []int{0, 2}))
}

func TestCloudWithValuesAndPoints(t *testing.T) {
	pts := [][]float64{{0.1, 0.1}, {0.2, 0.2}}
	c := NewCloud(pts, [][]float64{{1, 0}, {0, 1}}, 0.05, unitSquare())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Rank())

	c2 := c.WithValues([][]float64{{5, 5}, {6, 6}})
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, c.Values)
	assert.Equal(t, [][]float64{{5, 5}, {6, 6}}, c2.Values)

	c3 := c.WithPoints([][]float64{{0.3, 0.3}, {0.4, 0.4}}, 0.02)
	assert.Equal(t, pts, c.Points)
	assert.Equal(t, 0.02, c3.Radius)
	assert.Equal(t, c.Values, c3.Values)
}

func TestBatchedCloud(t *testing.T) {
	pts := [][]float64{{0.1, 0.1}, {0.9, 0.9}, {0.1, 0.9}, {0.9, 0.1}}
	c := NewBatchedCloud(2, pts, nil, 0.01, unitSquare())
	assert.Equal(t, 2, c.Len())

	occ := c.OccupancyCentered(unitSquare(), []int{2, 2}, Zero)
	// Batch entries rasterize independently.
	assert.Equal(t, 1.0, occ.At(0, []int{0, 0}))
	assert.Equal(t, 1.0, occ.At(0, []int{1, 1}))
	assert.Equal(t, 0.0, occ.At(0, []int{0, 1}))
	assert.Equal(t, 1.0, occ.At(1, []int{0, 1}))
	assert.Equal(t, 1.0, occ.At(1, []int{1, 0}))
	assert.Equal(t, 0.0, occ.At(1, []int{0, 0}))
}

func TestBatchedCloudDivisibility(t *testing.T) {
	assert.Panics(t, func() {
		NewBatchedCloud(2, [][]float64{{0, 0}, {0, 0}, {0, 0}}, nil, 0.01, unitSquare())
	})
}
