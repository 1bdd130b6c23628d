package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindgren-plasma/empic2d/current"
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/species"
	"github.com/lindgren-plasma/empic2d/vec"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := grid.New([2]int{8, 4}, [2]float64{1, 1}, 0.1, [2]bool{false, true})
	require.NoError(t, err)
	return g
}

func TestDueHonorsPlusOneOffset(t *testing.T) {
	g := testGrid(t)
	w := New(g)
	// dx0=1, nMove=0: trigger when iter*0.1 > 1, i.e. iter > 10.
	assert.False(t, w.Due(10))
	assert.True(t, w.Due(11))
}

func TestShiftDropsLeftmostColumnAndIncrementsNMove(t *testing.T) {
	g := testGrid(t)
	e := field.New(g)
	cur := current.New(g)
	rng := prng.NewGenerator(1, 2)
	s := species.New(g, -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]species.Boundary{species.Open, species.Periodic}, 0, rng)
	s.Particles = []species.Particle{{Ix: 0, Iy: 0, W: 1}, {Ix: 5, Iy: 2, W: 1}}

	e.E.Set(0, 0, vec.Vec3{X: 1})
	w := New(g)
	w.Shift(e, cur, []*species.Species{s}, []profile.Profile{profile.Uniform{N: 1}}, nil)

	assert.Equal(t, 1, w.NMove())
	assert.True(t, s.Particles[0].Removed())
	assert.Equal(t, int32(4), s.Particles[1].Ix)

	found := false
	for _, p := range s.Particles {
		if !p.Removed() && p.Ix == int32(g.Nx[grid.X]-1) {
			found = true
		}
	}
	assert.True(t, found, "shift must inject particles into the new right column")
}

type constSampler struct{ ey, ez float64 }

func (c constSampler) Sample(x, y float64) vec.Vec3 { return vec.Vec3{Y: c.ey, Z: c.ez} }

func TestShiftReseedsRightEdgeFromLasers(t *testing.T) {
	g := testGrid(t)
	e := field.New(g)
	cur := current.New(g)
	w := New(g)

	w.Shift(e, cur, nil, nil, []field.EdgeSampler{constSampler{ey: 2, ez: 3}})

	nx0 := g.Nx[grid.X]
	for iy := 0; iy < g.Nx[grid.Y]; iy++ {
		v := e.E.At(nx0-1, iy)
		assert.InDelta(t, 2.0, v.Y, 1e-12)
		assert.InDelta(t, 3.0, v.Z, 1e-12)
		b := e.B.At(nx0-1, iy)
		assert.InDelta(t, -3.0, b.Y, 1e-12)
		assert.InDelta(t, 2.0, b.Z, 1e-12)
	}
}
