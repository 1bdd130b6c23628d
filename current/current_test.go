package current_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindgren-plasma/empic2d/current"
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/species"
	"github.com/lindgren-plasma/empic2d/vec"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := grid.New([2]int{16, 16}, [2]float64{0.1, 0.1}, 0.01, [2]bool{true, true})
	require.NoError(t, err)
	return g
}

func TestZeroClearsInteriorAndGuard(t *testing.T) {
	g := testGrid(t)
	cur := current.New(g)
	cur.DepositSegment(3, 3, 0.2, 0.2, 0.6, 0.5, 1.0, 0.0)
	cur.Zero()
	for ix := -2; ix < 18; ix++ {
		for iy := -2; iy < 18; iy++ {
			v := cur.J.At(ix, iy)
			assert.Equal(t, 0.0, v.X)
			assert.Equal(t, 0.0, v.Y)
			assert.Equal(t, 0.0, v.Z)
		}
	}
}

func TestUpdateWithNoSmoothingIsIdentityOnInterior(t *testing.T) {
	g := testGrid(t)
	cur := current.New(g)
	cur.DepositSegment(5, 5, 0.1, 0.1, 0.4, 0.3, 2.0, 0.1)

	before := make(map[[2]int][3]float64)
	for ix := 0; ix < 16; ix++ {
		for iy := 0; iy < 16; iy++ {
			v := cur.J.At(ix, iy)
			before[[2]int{ix, iy}] = [3]float64{v.X, v.Y, v.Z}
		}
	}

	cur.Update()

	for ix := 0; ix < 16; ix++ {
		for iy := 0; iy < 16; iy++ {
			v := cur.J.At(ix, iy)
			want := before[[2]int{ix, iy}]
			assert.InDelta(t, want[0], v.X, 1e-12)
			assert.InDelta(t, want[1], v.Y, 1e-12)
			assert.InDelta(t, want[2], v.Z, 1e-12)
		}
	}
}

func TestDepositSegmentConservesXCurrentIntegral(t *testing.T) {
	g := testGrid(t)
	cur := current.New(g)
	q := 1.5
	dt := g.Dt
	cur.DepositSegment(4, 4, 0.1, 0.2, 0.8, 0.2, q, 0.0)

	var sum float64
	for ix := -2; ix < 18; ix++ {
		for iy := -2; iy < 18; iy++ {
			sum += cur.J.At(ix, iy).X
		}
	}
	want := q * (0.8 - 0.1) / dt
	assert.InDelta(t, want, sum, 1e-9, "total Jx deposited must equal q*dx/dt")
}

// TestPushSatisfiesPerCellContinuity deposits rho via species.Charge before
// and after a single push and checks that the resulting change matches the
// divergence of the current that same push deposited into cur.J, at every
// corner node the particle's motion touched — the per-cell form of
// drho/dt + div(J) = 0 that charge-conserving deposition must satisfy
// exactly, not just in its domain-wide integral (see
// TestDepositSegmentConservesXCurrentIntegral above).
func TestPushSatisfiesPerCellContinuity(t *testing.T) {
	g := testGrid(t)
	e := field.New(g)
	cur := current.New(g)
	rng := prng.NewGenerator(11, 12)
	s := species.New(g, -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]species.Boundary{species.Periodic, species.Periodic}, 0, rng)
	s.Particles = []species.Particle{{Ix: 4, Iy: 4, X: 0.1, Y: 0.2, Ux: 3, Uy: 1, W: 1}}

	before := s.Charge()
	require.NoError(t, s.Push(e, cur, g.Dt))
	after := s.Charge()

	nx0, nx1 := g.Nx[grid.X], g.Nx[grid.Y]
	drho := func(ix, iy int) float64 {
		ix = ((ix % nx0) + nx0) % nx0
		iy = ((iy % nx1) + nx1) % nx1
		return (after[ix][iy] - before[ix][iy]) / g.Dt
	}
	div := func(ix, iy int) float64 {
		return (cur.J.At(ix, iy).X - cur.J.At(ix-1, iy).X) + (cur.J.At(ix, iy).Y - cur.J.At(ix, iy-1).Y)
	}

	for ix := 2; ix <= 6; ix++ {
		for iy := 2; iy <= 6; iy++ {
			assert.InDelta(t, 0.0, drho(ix, iy)+div(ix, iy), 1e-9,
				"continuity violated at (%d,%d)", ix, iy)
		}
	}
}
