package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/vec"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := grid.New([2]int{8, 8}, [2]float64{0.1, 0.1}, 0.01, [2]bool{true, true})
	require.NoError(t, err)
	return g
}

func TestApplyZeroLevelsIsIdentity(t *testing.T) {
	g := testGrid(t)
	buf := field.NewBuffer(g)
	for ix := 0; ix < 8; ix++ {
		for iy := 0; iy < 8; iy++ {
			buf.Set(ix, iy, vec.Vec3{X: float64(ix), Y: float64(iy), Z: 1})
		}
	}
	before := append([]vec.Vec3(nil), buf.Vals...)
	Apply(buf, g, 0, 0, false)
	assert.Equal(t, before, buf.Vals, "xlevel=0, ylevel=0 must not modify the buffer")
}

func TestApplyUniformFieldIsUnchanged(t *testing.T) {
	g := testGrid(t)
	buf := field.NewBuffer(g)
	for ix := 0; ix < 8; ix++ {
		for iy := 0; iy < 8; iy++ {
			buf.Set(ix, iy, vec.Vec3{X: 3, Y: -2, Z: 5})
		}
	}
	Apply(buf, g, 2, 2, true)
	for ix := 0; ix < 8; ix++ {
		for iy := 0; iy < 8; iy++ {
			v := buf.At(ix, iy)
			assert.InDelta(t, 3.0, v.X, 1e-9)
			assert.InDelta(t, -2.0, v.Y, 1e-9)
			assert.InDelta(t, 5.0, v.Z, 1e-9)
		}
	}
}
