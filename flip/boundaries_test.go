package flip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlandau/gridflow"
	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/geom"
)

func TestRespectBoundariesPushesOutOfObstacles(t *testing.T) {
	bounds := geom.NewBox([]float64{-3, -3}, []float64{3, 3})
	sphere := geom.NewSphere([]float64{0, 0}, 1)
	cloud := field.NewCloud(
		[][]float64{{0.1, 0}, {0, 0.2}, {-0.1, -0.1}},
		[][]float64{{1, 0}, {0, 1}, {1, 1}},
		0.01, bounds,
	)

	out, err := RespectBoundaries(cloud, []geom.Geometry{sphere}, 0.5)
	assert.NoError(t, err)
	for _, pt := range out.Points {
		d := pt[0]*pt[0] + pt[1]*pt[1]
		assert.InDelta(t, 1.5*1.5, d, 1e-9)
	}
	// Velocities ride along unchanged, and the cloud is rebuilt with the
	// standard particle radius of 0.5% of the mean extent.
	assert.Equal(t, cloud.Values, out.Values)
	assert.InDelta(t, 0.03, out.Radius, 1e-12)
	// The input keeps its positions.
	assert.Equal(t, []float64{0.1, 0}, cloud.Points[0])
}

func TestRespectBoundariesClampsToDomain(t *testing.T) {
	bounds := geom.NewBox([]float64{-3, -3}, []float64{3, 3})
	cloud := field.NewCloud(
		[][]float64{{2.9, 0}, {0, -3.4}, {1, 1}},
		[][]float64{{0, 0}, {0, 0}, {0, 0}},
		0.01, bounds,
	)

	out, err := RespectBoundaries(cloud, nil, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, []float64{2.5, 0}, out.Points[0])
	assert.Equal(t, []float64{0, -2.5}, out.Points[1])
	assert.Equal(t, []float64{1, 1}, out.Points[2])
}

func TestRespectBoundariesAppliesPushesInOrder(t *testing.T) {
	bounds := geom.NewBox([]float64{0, 0}, []float64{10, 10})
	first := geom.NewSphere([]float64{5, 5}, 1)
	second := geom.NewSphere([]float64{7, 5}, 1)
	cloud := field.NewCloud(
		[][]float64{{5.9, 5}}, [][]float64{{0, 0}}, 0.01, bounds,
	)

	// The first sphere pushes the particle right to x=6.5, straight into the
	// second, which pushes it back out to x=5.5: the last push wins.
	out, err := RespectBoundaries(cloud, []geom.Geometry{first, second}, 0.5)
	assert.NoError(t, err)
	assert.InDelta(t, 5.5, out.Points[0][0], 1e-9)
	assert.InDelta(t, 5.0, out.Points[0][1], 1e-9)
}

func TestRespectBoundariesRequiresBounds(t *testing.T) {
	cloud := field.NewCloud([][]float64{{0, 0}}, [][]float64{{0, 0}}, 0.01, nil)
	_, err := RespectBoundaries(cloud, nil, 0.5)
	var pre *gridflow.PreconditionError
	assert.ErrorAs(t, err, &pre)
}
