package species

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindgren-plasma/empic2d/current"
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/vec"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := grid.New([2]int{8, 8}, [2]float64{1, 1}, 0.1, [2]bool{true, true})
	require.NoError(t, err)
	return g
}

func TestInitSeedsExactParticleCountAndWeight(t *testing.T) {
	g := testGrid(t)
	rng := prng.NewGenerator(1, 2)
	s := New(g, -1, [2]int{2, 2}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Init(profile.Uniform{N: 4})
	assert.Len(t, s.Particles, 8*8*4)
	for _, p := range s.Particles {
		assert.InDelta(t, 1.0, float64(p.W), 1e-6)
	}
}

func TestInitSkipsBelowMinDensity(t *testing.T) {
	g := testGrid(t)
	rng := prng.NewGenerator(1, 2)
	s := New(g, -1, [2]int{2, 2}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Init(profile.Uniform{N: 1e-9})
	assert.Empty(t, s.Particles)
}

func TestPushFreeStreamingAdvancesPosition(t *testing.T) {
	g := testGrid(t)
	e := field.New(g)
	cur := current.New(g)
	rng := prng.NewGenerator(3, 4)
	s := New(g, -1, [2]int{1, 1}, vec.Vec3{X: 0.5}, vec.Vec3{}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Particles = []Particle{{Ix: 2, Iy: 2, X: 0.1, Y: 0.5, Ux: 0.5}}

	err := s.Push(e, cur, g.Dt)
	require.NoError(t, err)

	p := s.Particles[0]
	gamma := vec.Vec3{X: 0.5}.Gamma()
	wantX := 0.1 + 0.5/gamma*g.Dt/g.Dx[grid.X]
	assert.InDelta(t, wantX, float64(p.X), 1e-9)
	assert.Equal(t, int32(2), p.Ix)
}

func TestOpenBoundaryRemovesEscapingParticle(t *testing.T) {
	g, err := grid.New([2]int{4, 4}, [2]float64{1, 1}, 0.1, [2]bool{false, true})
	require.NoError(t, err)
	e := field.New(g)
	cur := current.New(g)
	rng := prng.NewGenerator(5, 6)
	s := New(g, -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{Open, Periodic}, 0, rng)
	s.Particles = []Particle{{Ix: 3, Iy: 1, X: 0.99, Y: 0.5, Ux: 5}}

	require.NoError(t, s.Push(e, cur, g.Dt))
	assert.True(t, s.Particles[0].Removed())
}

func TestNoneBoundaryAssertsOnEgress(t *testing.T) {
	g, err := grid.New([2]int{4, 4}, [2]float64{1, 1}, 0.1, [2]bool{false, true})
	require.NoError(t, err)
	e := field.New(g)
	cur := current.New(g)
	rng := prng.NewGenerator(7, 8)
	s := New(g, -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{None, Periodic}, 0, rng)
	s.Particles = []Particle{{Ix: 3, Iy: 1, X: 0.99, Y: 0.5, Ux: 5}}

	err = s.Push(e, cur, g.Dt)
	require.Error(t, err)
	var be *BoundaryError
	assert.ErrorAs(t, err, &be)
}

func TestSortPreservesParticleCountAndDropsRemoved(t *testing.T) {
	g := testGrid(t)
	rng := prng.NewGenerator(9, 10)
	s := New(g, -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Particles = []Particle{
		{Ix: 3, Iy: 1, W: 1},
		{Ix: -1, Iy: 1, W: 1},
		{Ix: 0, Iy: 0, W: 1},
		{Ix: 3, Iy: 1, W: 1},
	}
	s.Sort()
	assert.Len(t, s.Particles, 3)
	for i := 1; i < len(s.Particles); i++ {
		a := s.Particles[i-1]
		b := s.Particles[i]
		assert.LessOrEqual(t, int(a.Iy)*8+int(a.Ix), int(b.Iy)*8+int(b.Ix))
	}
}

func TestChargeIntegratesToTotalWeightTimesMQ(t *testing.T) {
	g := testGrid(t)
	rng := prng.NewGenerator(11, 12)
	s := New(g, -1, [2]int{2, 2}, vec.Vec3{}, vec.Vec3{}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Init(profile.Uniform{N: 4})
	rho := s.Charge()
	sum := 0.0
	for _, row := range rho {
		for _, v := range row {
			sum += v
		}
	}
	assert.InDelta(t, -4*64, sum, 1e-6)
}

func TestPhasespaceConservesTotalWeight(t *testing.T) {
	g := testGrid(t)
	rng := prng.NewGenerator(13, 14)
	s := New(g, -1, [2]int{2, 2}, vec.Vec3{}, vec.Vec3{X: 0.1}, [2]Boundary{Periodic, Periodic}, 0, rng)
	s.Init(profile.Uniform{N: 4})
	hist := s.Phasespace(QX, QUx, [2]int{16, 16}, [2][2]float64{{0, 8}, {-2, 2}})
	sum := 0.0
	for _, row := range hist {
		for _, v := range row {
			sum += v
		}
	}
	assert.InDelta(t, float64(len(s.Particles)), sum, 1e-6)
}
