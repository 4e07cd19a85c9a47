package flip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
)

// uniformStaggered fills a periodic 4x4 staggered grid with a constant
// velocity.
func uniformStaggered(vx, vy float64) *field.StaggeredGrid {
	g := field.NewStaggeredGrid(unitSquare(), []int{4, 4}, field.Periodic, 1)
	for i := range g.Comp[0] {
		g.Comp[0][i] = vx
	}
	for i := range g.Comp[1] {
		g.Comp[1][i] = vy
	}
	return g
}

func onesStaggered() *field.StaggeredGrid {
	return uniformStaggered(1, 1)
}

func oneParticle() *field.Cloud {
	return field.NewCloud(
		[][]float64{{0.5, 0.5}}, [][]float64{{5, 5}}, 0.005, unitSquare(),
	)
}

func TestTransferPureReplacement(t *testing.T) {
	out, err := MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), uniformStaggered(1, 0), 1,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, out.Values[0][0], 1e-12)
	assert.InDelta(t, 0.0, out.Values[0][1], 1e-12)
}

func TestTransferPureIncrement(t *testing.T) {
	// The grid change is (1, 0), added on top of the old particle velocity.
	out, err := MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), uniformStaggered(1, 0), 0,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, out.Values[0][0], 1e-12)
	assert.InDelta(t, 5.0, out.Values[0][1], 1e-12)
}

func TestTransferBlend(t *testing.T) {
	out, err := MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), uniformStaggered(1, 0), 0.5,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, out.Values[0][0], 1e-12)
	assert.InDelta(t, 2.5, out.Values[0][1], 1e-12)
}

func TestTransferClampsBlendWeight(t *testing.T) {
	out, err := MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), uniformStaggered(1, 0), 7,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, out.Values[0][0], 1e-12)

	out, err = MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), uniformStaggered(1, 0), -3,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, out.Values[0][0], 1e-12)
}

func TestTransferNilPreviousGridForcesReplacement(t *testing.T) {
	out, err := MapVelocityToParticles(
		oneParticle(), uniformStaggered(2, 0), onesStaggered(), nil, 0,
	)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, out.Values[0][0], 1e-12)
	assert.InDelta(t, 0.0, out.Values[0][1], 1e-12)
}

func TestTransferPreconditionErrors(t *testing.T) {
	var pre *gridflow.PreconditionError

	noValues := field.NewCloud([][]float64{{0.5, 0.5}}, nil, 0.005, unitSquare())
	_, err := MapVelocityToParticles(noValues, uniformStaggered(1, 0), onesStaggered(), nil, 1)
	assert.ErrorAs(t, err, &pre)

	badOcc := field.NewStaggeredGrid(unitSquare(), []int{8, 8}, field.Periodic, 1)
	_, err = MapVelocityToParticles(oneParticle(), uniformStaggered(1, 0), badOcc, nil, 1)
	assert.ErrorAs(t, err, &pre)

	badPrev := field.NewStaggeredGrid(unitSquare(), []int{8, 8}, field.Periodic, 1)
	_, err = MapVelocityToParticles(oneParticle(), uniformStaggered(1, 0), onesStaggered(), badPrev, 0.5)
	assert.ErrorAs(t, err, &pre)
}

func TestVelocityToGridSingleParticle(t *testing.T) {
	cloud := field.NewCloud(
		[][]float64{{0.25, 0.375}}, [][]float64{{3, -2}}, 0.005, unitSquare(),
	)
	v := VelocityToGrid(cloud, unitSquare(), []int{4, 4}, field.Zero)

	// The particle sits exactly on an x face, so that component lands on a
	// single sample.
	assert.InDelta(t, 3.0, v.CompAt(0, 0, []int{1, 1}), 1e-12)
	assert.InDelta(t, 0.0, v.CompAt(0, 0, []int{2, 1}), 1e-12)
	// The y component spreads over four faces, but weight normalization
	// restores the particle value on every touched face.
	for _, idx := range [][]int{{0, 1}, {0, 2}, {1, 1}, {1, 2}} {
		assert.InDelta(t, -2.0, v.CompAt(0, 1, idx), 1e-12)
	}
}

func TestVelocityToGridPeriodicSeam(t *testing.T) {
	cloud := field.NewCloud(
		[][]float64{{0.95, 0.375}}, [][]float64{{2, 0}}, 0.005, unitSquare(),
	)
	v := VelocityToGrid(cloud, unitSquare(), []int{4, 4}, field.Periodic)
	// Most of the particle's x weight wraps across the seam. The seam face
	// is stored twice and both copies must carry the splatted value.
	assert.InDelta(t, 2.0, v.CompAt(0, 0, []int{3, 1}), 1e-12)
	assert.InDelta(t, 2.0, v.CompAt(0, 0, []int{0, 1}), 1e-12)
	assert.InDelta(t, 2.0, v.CompAt(0, 0, []int{4, 1}), 1e-12)
}

func TestVelocityToGridAveragesCoincidentParticles(t *testing.T) {
	cloud := field.NewCloud(
		[][]float64{{0.4, 0.4}, {0.4, 0.4}},
		[][]float64{{2, 0}, {4, 0}},
		0.005, unitSquare(),
	)
	v := VelocityToGrid(cloud, unitSquare(), []int{4, 4}, field.Zero)
	assert.InDelta(t, 3.0, v.CompAt(0, 0, []int{1, 1}), 1e-12)
	assert.InDelta(t, 3.0, v.CompAt(0, 0, []int{2, 1}), 1e-12)
}

func TestAdvect(t *testing.T) {
	cloud := field.NewCloud(
		[][]float64{{0.1, 0.2}}, [][]float64{{1, -1}}, 0.005, unitSquare(),
	)
	out := Advect(cloud, 0.5)
	assert.InDelta(t, 0.6, out.Points[0][0], 1e-12)
	assert.InDelta(t, -0.3, out.Points[0][1], 1e-12)
	// The input cloud keeps its positions.
	assert.Equal(t, []float64{0.1, 0.2}, cloud.Points[0])
	assert.Equal(t, cloud.Radius, out.Radius)
}
