package empic2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/species"
	"github.com/lindgren-plasma/empic2d/vec"
)

func TestNewSimulationRejectsSmallNx(t *testing.T) {
	_, err := NewSimulation([2]int{1, 8}, [2]float64{1, 1}, 0.01, [2]bool{true, true}, nil, nil)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestNewSimulationRejectsNonPositiveBox(t *testing.T) {
	_, err := NewSimulation([2]int{8, 8}, [2]float64{0, 1}, 0.01, [2]bool{true, true}, nil, nil)
	require.Error(t, err)
}

func TestNewSimulationRejectsCourantViolation(t *testing.T) {
	_, err := NewSimulation([2]int{8, 8}, [2]float64{1, 1}, 1.0, [2]bool{true, true}, nil, nil)
	require.Error(t, err)
}

func TestIterAdvancesStepCountAndTime(t *testing.T) {
	sim, err := NewSimulation([2]int{16, 16}, [2]float64{1.6, 1.6}, 0.05, [2]bool{true, true}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, sim.Iter())
	assert.Equal(t, 1, sim.N())
	assert.InDelta(t, sim.Grid().Dt, sim.T(), 1e-12)
}

func TestReportCallbackFiresBeforeEachIter(t *testing.T) {
	sim, err := NewSimulation([2]int{16, 16}, [2]float64{1.6, 1.6}, 0.05, [2]bool{true, true}, nil, nil)
	require.NoError(t, err)

	calls := 0
	sim.report = func(*Simulation) { calls++ }
	require.NoError(t, sim.Iter())
	require.NoError(t, sim.Iter())
	assert.Equal(t, 2, calls)
}

func TestRunStopsAtTmax(t *testing.T) {
	sim, err := NewSimulation([2]int{16, 16}, [2]float64{3.2, 3.2}, 0.1, [2]bool{true, true}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, sim.Run(0.45))
	assert.Equal(t, 5, sim.N())
}

func TestZeroFieldZeroCurrentStepIsNoOpOnFields(t *testing.T) {
	sim, err := NewSimulation([2]int{16, 16}, [2]float64{1.6, 1.6}, 0.05, [2]bool{true, true}, nil, nil)
	require.NoError(t, err)

	before := append([]vec.Vec3(nil), sim.EMF().E.Vals...)
	require.NoError(t, sim.Iter())
	assert.Equal(t, before, sim.EMF().E.Vals)
}

func TestStrictNoneBoundaryPropagatesThroughIter(t *testing.T) {
	sim, err := NewSimulation([2]int{4, 4}, [2]float64{4, 4}, 0.1, [2]bool{false, true}, nil, nil)
	require.NoError(t, err)

	rng := prng.NewGenerator(1, 2)
	sp := species.New(sim.Grid(), -1, [2]int{1, 1}, vec.Vec3{}, vec.Vec3{}, [2]species.Boundary{species.None, species.Periodic}, 0, rng)
	sp.Particles = []species.Particle{{Ix: 3, Iy: 1, X: 0.99, Y: 0.5, Ux: 5}}
	sim.specs = []*species.Species{sp}

	err = sim.Iter()
	var be *species.BoundaryError
	assert.ErrorAs(t, err, &be)
}

func TestMovingWindowShiftsOnSchedule(t *testing.T) {
	sim, err := NewSimulation([2]int{4, 4}, [2]float64{4, 4}, 0.5, [2]bool{false, true}, nil, nil)
	require.NoError(t, err)
	sim.SetMovingWindow([]profile.Profile{})

	require.NoError(t, sim.Iter())
	require.NoError(t, sim.Iter())
	assert.Equal(t, 0, sim.win.NMove(), "trigger requires iter*dt > dx0*n_move + 1 strictly")
	require.NoError(t, sim.Iter())
	assert.Equal(t, 1, sim.win.NMove())
}
