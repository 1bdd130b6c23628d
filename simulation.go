package empic2d

import (
	"fmt"

	"github.com/lindgren-plasma/empic2d/current"
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/species"
	"github.com/lindgren-plasma/empic2d/window"
)

// Simulation owns the full grid-resident state (field, current, species)
// and drives one self-consistent leapfrog step at a time, per spec.md
// §4.6: zero current, push and deposit every species, apply current
// boundaries and smoothing, advance the field, optionally shift the
// moving window, then advance the step counter and simulation time.
type Simulation struct {
	g   *grid.Grid
	emf *field.EMF
	cur *current.Current

	specs    []*species.Species
	profiles []profile.Profile // parallel to specs; used only by the moving window

	win    *window.Window
	lasers []field.EdgeSampler // injectors that can also re-seed the moving window's right edge

	report func(*Simulation)

	n int
	t float64
}

// NewSimulation validates nx, box and dt (spec.md §6: rejects nx < 2,
// box <= 0, dt <= 0, or dt >= min(dx_i)) and assembles a Simulation from
// them, periodic along the axes periodic marks true, over the given
// species. report, if non-nil, is invoked with the simulation immediately
// before every Iter call.
func NewSimulation(nx [2]int, box [2]float64, dt float64, periodic [2]bool, specs []*species.Species, report func(*Simulation)) (*Simulation, error) {
	if nx[grid.X] < 2 || nx[grid.Y] < 2 {
		return nil, configError("nx", "must be >= 2 on each axis, got %v", nx)
	}
	if box[grid.X] <= 0 || box[grid.Y] <= 0 {
		return nil, configError("box", "must be positive on each axis, got %v", box)
	}
	dx := [2]float64{box[grid.X] / float64(nx[grid.X]), box[grid.Y] / float64(nx[grid.Y])}

	g, err := grid.New(nx, dx, dt, periodic)
	if err != nil {
		return nil, configError("dt", "%v", err)
	}

	return &Simulation{
		g:      g,
		emf:    field.New(g),
		cur:    current.New(g),
		specs:  specs,
		report: report,
	}, nil
}

// SetSpecies replaces the simulation's species list, for drivers that
// build species only after the grid (and therefore Simulation) exists.
func (s *Simulation) SetSpecies(specs []*species.Species) { s.specs = specs }

// SetReport installs the per-step report callback, overriding whatever was
// passed to NewSimulation.
func (s *Simulation) SetReport(report func(*Simulation)) { s.report = report }

// SetMovingWindow enables the moving-window shift; profiles supplies the
// loading profile used to re-seed each species' newly exposed right-edge
// column (index-aligned with the species slice passed to NewSimulation;
// a nil entry skips injection for that species).
func (s *Simulation) SetMovingWindow(profiles []profile.Profile) {
	s.win = window.New(s.g)
	s.profiles = profiles
}

// SetSmooth configures the current smoothing pass applied every step.
func (s *Simulation) SetSmooth(xlevel, ylevel int, compensated bool) {
	s.cur.SetSmooth(xlevel, ylevel, compensated)
}

// AddLaser injects a pulse into the field at the current field state
// (normally called once, before the first Iter, per spec.md §4.1). If l
// also implements field.EdgeSampler (as *laser.Laser does), it is kept to
// re-seed the moving window's freshly exposed right-edge column on every
// shift, per spec.md §4.5.
func (s *Simulation) AddLaser(l field.Injector) {
	s.emf.AddLaser(l)
	if es, ok := l.(field.EdgeSampler); ok {
		s.lasers = append(s.lasers, es)
	}
}

// Iter performs one self-consistent step: report (if set), zero current,
// push and deposit every species, update the current's boundary and
// smoothing, advance the field, shift the moving window if due, then
// advance n and t.
func (s *Simulation) Iter() error {
	if s.report != nil {
		s.report(s)
	}

	s.cur.Zero()
	for _, sp := range s.specs {
		if err := sp.Push(s.emf, s.cur, s.g.Dt); err != nil {
			return fmt.Errorf("empic2d: step %d: %w", s.n, err)
		}
	}
	s.cur.Update()
	s.emf.Advance(s.cur, s.g.Dt)

	if s.win != nil && s.win.Due(s.n+1) {
		s.win.Shift(s.emf, s.cur, s.specs, s.profiles, s.lasers)
	}

	s.n++
	s.t = float64(s.n) * s.g.Dt
	return nil
}

// Run calls Iter until t reaches tmax, stopping (and returning its error)
// immediately if any Iter fails.
func (s *Simulation) Run(tmax float64) error {
	for s.t < tmax {
		if err := s.Iter(); err != nil {
			return err
		}
	}
	return nil
}

// N returns the number of completed steps.
func (s *Simulation) N() int { return s.n }

// T returns the current simulation time, n*dt.
func (s *Simulation) T() float64 { return s.t }

// EMF returns the field solver.
func (s *Simulation) EMF() *field.EMF { return s.emf }

// Current returns the shared current accumulator.
func (s *Simulation) Current() *current.Current { return s.cur }

// Species returns the simulation's species list.
func (s *Simulation) Species() []*species.Species { return s.specs }

// Grid returns the grid geometry backing every buffer in the simulation.
func (s *Simulation) Grid() *grid.Grid { return s.g }
