// Package species owns the macro-particle population: profile-seeded
// initialization, the relativistic Boris push with zigzag charge-conserving
// deposition, per-particle boundary handling, periodic cache-locality
// sorting, and the charge/phasespace diagnostics.
package species

import (
	"fmt"
	"math"

	"github.com/lindgren-plasma/empic2d/current"
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/vec"
)

// Boundary selects what Push does with a particle that crosses a physical
// edge on a non-periodic axis.
type Boundary int

const (
	// Periodic wraps ix/iy mod nx by the axis's cell count. Preferred for
	// both axes per spec.md §4.4.
	Periodic Boundary = iota
	// Open marks the particle removed (Ix = -1); Sort compacts it out.
	Open
	// None asserts no particle ever leaves the domain on this axis. What
	// "leaves" means when no check fires is left undefined by the
	// reference this engine follows; StrictBoundaryChecks controls
	// whether that assumption is verified at runtime.
	None
)

// StrictBoundaryChecks controls whether a None-bounded axis asserts on
// egress (returning a BoundaryError from Push) or silently trusts the
// caller's guarantee, matching the "assert in a checked build" resolution
// recorded in DESIGN.md for the boundary-enum open question. Tests run with
// this on; a release driver may turn it off once a configuration is
// known-safe.
var StrictBoundaryChecks = true

// BoundaryError reports a particle crossing a None-bounded axis while
// StrictBoundaryChecks is enabled.
type BoundaryError struct {
	Axis   int
	Ix, Iy int32
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("species: particle at (%d,%d) crossed a none-bounded axis %d", e.Ix, e.Iy, e.Axis)
}

// Species is a dynamically sized population of macro-particles sharing one
// charge-to-mass ratio, density profile, thermal/fluid loading and boundary
// policy.
type Species struct {
	g   *grid.Grid
	MQ  float64 // charge/mass ratio, in units where e=m=1 scales to m_q
	Ppc [2]int
	Ufl vec.Vec3
	Uth vec.Vec3
	Bnd [2]Boundary

	NSort int
	step  int

	rng *prng.Generator

	Particles []Particle
}

// New allocates an empty species over g with the given charge-to-mass
// ratio, particles-per-cell loading, drift/thermal velocities and
// per-axis boundary policy, seeded by rng for both initial loading and any
// later re-seeding (e.g. the moving window's right-edge injection).
func New(g *grid.Grid, mq float64, ppc [2]int, ufl, uth vec.Vec3, bnd [2]Boundary, nSort int, rng *prng.Generator) *Species {
	return &Species{
		g: g, MQ: mq, Ppc: ppc, Ufl: ufl, Uth: uth, Bnd: bnd, NSort: nSort, rng: rng,
	}
}

// Init seeds the physical domain from a density profile: each cell with
// n >= profile.MinDensity gets Ppc[0]*Ppc[1] particles at sub-cell
// positions (k+0.5)/Ppc[0], (l+0.5)/Ppc[1], with statistical weight
// n/(ppc0*ppc1) and velocities Ufl + Uth .* N(0,1) per component.
func (s *Species) Init(p profile.Profile) {
	nx0, nx1 := s.g.Nx[grid.X], s.g.Nx[grid.Y]
	dx0, dx1 := s.g.Dx[grid.X], s.g.Dx[grid.Y]
	p0, p1 := s.Ppc[grid.X], s.Ppc[grid.Y]
	if p0 <= 0 || p1 <= 0 {
		return
	}
	npc := float64(p0 * p1)

	for ix := 0; ix < nx0; ix++ {
		for iy := 0; iy < nx1; iy++ {
			cx := (float64(ix) + 0.5) * dx0
			cy := (float64(iy) + 0.5) * dx1
			n := p.Density(cx, cy)
			if n < profile.MinDensity {
				continue
			}
			w := float32(n / npc)
			for k := 0; k < p0; k++ {
				for l := 0; l < p1; l++ {
					x := (float64(k) + 0.5) / float64(p0)
					y := (float64(l) + 0.5) / float64(p1)
					s.Particles = append(s.Particles, Particle{
						Ix: int32(ix), Iy: int32(iy),
						X: float32(x), Y: float32(y),
						Ux: s.Ufl.X + s.Uth.X*s.rng.Gauss(),
						Uy: s.Ufl.Y + s.Uth.Y*s.rng.Gauss(),
						Uz: s.Ufl.Z + s.Uth.Z*s.rng.Gauss(),
						W:  w,
					})
				}
			}
		}
	}
}

// ShiftWindow decrements every live particle's Ix by one, matching a
// moving-window field shift, and marks particles whose Ix falls below
// zero removed.
func (s *Species) ShiftWindow() {
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Removed() {
			continue
		}
		p.Ix--
		if p.Ix < 0 {
			p.Ix = -1
		}
	}
}

// InjectColumn samples p the way Init samples a single cell, across every
// row of column ix, appending the freshly loaded particles to s. The
// moving window calls this on the newly exposed rightmost column after
// every shift.
func (s *Species) InjectColumn(ix int, p profile.Profile) {
	p0, p1 := s.Ppc[grid.X], s.Ppc[grid.Y]
	if p0 <= 0 || p1 <= 0 {
		return
	}
	npc := float64(p0 * p1)
	nx1 := s.g.Nx[grid.Y]
	dx0, dx1 := s.g.Dx[grid.X], s.g.Dx[grid.Y]
	cx := (float64(ix) + 0.5) * dx0

	for iy := 0; iy < nx1; iy++ {
		cy := (float64(iy) + 0.5) * dx1
		n := p.Density(cx, cy)
		if n < profile.MinDensity {
			continue
		}
		w := float32(n / npc)
		for k := 0; k < p0; k++ {
			for l := 0; l < p1; l++ {
				x := (float64(k) + 0.5) / float64(p0)
				y := (float64(l) + 0.5) / float64(p1)
				s.Particles = append(s.Particles, Particle{
					Ix: int32(ix), Iy: int32(iy),
					X: float32(x), Y: float32(y),
					Ux: s.Ufl.X + s.Uth.X*s.rng.Gauss(),
					Uy: s.Ufl.Y + s.Uth.Y*s.rng.Gauss(),
					Uz: s.Ufl.Z + s.Uth.Z*s.rng.Gauss(),
					W:  w,
				})
			}
		}
	}
}

// Push advances every live particle one full step: interpolates E_part and
// B_part, applies the Boris rotation, advances position, deposits the
// zigzag-split current into cur, and applies this species's boundary
// policy. After advancing, it increments the internal step counter and
// runs Sort if NSort > 0 and the interval has elapsed.
func (s *Species) Push(e *field.EMF, cur *current.Current, dt float64) error {
	nx0, nx1 := s.g.Nx[grid.X], s.g.Nx[grid.Y]
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Removed() {
			continue
		}

		x0, y0 := float64(p.X), float64(p.Y)
		ep := e.EPart(int(p.Ix), int(p.Iy), x0, y0)
		bp := e.BPart(int(p.Ix), int(p.Iy), x0, y0)

		qmdt2 := 0.5 * s.MQ * dt
		u := vec.Vec3{X: p.Ux, Y: p.Uy, Z: p.Uz}
		uMinus := u.AddScaled(ep, qmdt2)

		gammaMinus := uMinus.Gamma()
		t := bp.Scale(qmdt2 / gammaMinus)
		uPrime := uMinus.Add(uMinus.Cross(t))
		sVec := t.Scale(2 / (1 + t.Norm2()))
		uPlus := uMinus.Add(uPrime.Cross(sVec))
		uNew := uPlus.AddScaled(ep, qmdt2)

		gammaNew := uNew.Gamma()
		ddx := uNew.X / gammaNew * dt / s.g.Dx[grid.X]
		ddy := uNew.Y / gammaNew * dt / s.g.Dx[grid.Y]

		q := math.Copysign(float64(p.W), s.MQ)
		vz := uNew.Z / gammaNew
		s.depositTrajectory(cur, int(p.Ix), int(p.Iy), x0, y0, x0+ddx, y0+ddy, q, vz)

		p.Ux, p.Uy, p.Uz = uNew.X, uNew.Y, uNew.Z

		nix, niy := int(p.Ix), int(p.Iy)
		nx, ny := x0+ddx, y0+ddy
		for nx >= 1 {
			nx--
			nix++
		}
		for nx < 0 {
			nx++
			nix--
		}
		for ny >= 1 {
			ny--
			niy++
		}
		for ny < 0 {
			ny++
			niy--
		}

		nix, removed, err := s.applyBoundary(grid.X, nix, nx0)
		if err != nil {
			return err
		}
		niy, removedY, err := s.applyBoundary(grid.Y, niy, nx1)
		if err != nil {
			return err
		}
		if removed || removedY {
			p.Ix = -1
			continue
		}
		p.Ix, p.Iy = int32(nix), int32(niy)
		p.X, p.Y = float32(nx), float32(ny)
	}

	s.step++
	if s.NSort > 0 && s.step%s.NSort == 0 {
		s.Sort()
	}
	return nil
}

// applyBoundary maps a post-push cell index back into range per the axis's
// policy, reporting whether the particle was removed (Open) and any
// BoundaryError raised by a None-bounded axis under StrictBoundaryChecks.
func (s *Species) applyBoundary(axis, idx, n int) (int, bool, error) {
	if idx >= 0 && idx < n {
		return idx, false, nil
	}
	switch s.Bnd[axis] {
	case Periodic:
		return grid.PMod(idx, n), false, nil
	case Open:
		return idx, true, nil
	default: // None
		if StrictBoundaryChecks {
			return idx, false, &BoundaryError{Axis: axis}
		}
		return idx, false, nil
	}
}

// depositTrajectory splits a particle's in-cell displacement at every cell
// boundary it crosses and calls cur.DepositSegment once per sub-segment, the
// Villaseñor-Buneman zigzag construction that keeps the deposited current
// exactly charge-conserving even when a particle crosses more than one
// cell edge in a single step.
func (s *Species) depositTrajectory(cur *current.Current, ix, iy int, x0, y0, x1, y1, q, vz float64) {
	dx := x1 - x0
	dy := y1 - y0
	if dx == 0 && dy == 0 {
		cur.DepositSegment(ix, iy, x0, y0, x1, y1, q, vz)
		return
	}

	t := 1.0
	if dx > 0 {
		t = math.Min(t, (1-x0)/dx)
	} else if dx < 0 {
		t = math.Min(t, (0-x0)/dx)
	}
	if dy > 0 {
		t = math.Min(t, (1-y0)/dy)
	} else if dy < 0 {
		t = math.Min(t, (0-y0)/dy)
	}
	if t >= 1 {
		cur.DepositSegment(ix, iy, x0, y0, x1, y1, q, vz)
		return
	}

	xm := x0 + t*dx
	ym := y0 + t*dy
	cur.DepositSegment(ix, iy, x0, y0, xm, ym, q, vz)

	nix, nx := ix, xm
	if nx >= 1 {
		nx -= 1
		nix++
	} else if nx <= 0 {
		nx += 1
		nix--
	}
	niy, ny := iy, ym
	if ny >= 1 {
		ny -= 1
		niy++
	} else if ny <= 0 {
		ny += 1
		niy--
	}

	s.depositTrajectory(cur, nix, niy, nx, ny, x1-float64(nix-ix), y1-float64(niy-iy), q, vz)
}

// Sort bucket-sorts the particle array by linear cell index iy*nx0+ix,
// stable with respect to insertion order within a bucket, and drops
// removed particles. Only cache locality changes; physical results must
// be identical to the unsorted order.
func (s *Species) Sort() {
	nx0 := s.g.Nx[grid.X]
	nx1 := s.g.Nx[grid.Y]
	buckets := make([][]Particle, nx0*nx1)
	for _, p := range s.Particles {
		if p.Removed() {
			continue
		}
		idx := int(p.Iy)*nx0 + int(p.Ix)
		buckets[idx] = append(buckets[idx], p)
	}
	out := s.Particles[:0]
	for _, b := range buckets {
		out = append(out, b...)
	}
	s.Particles = out
}

// Charge deposits this species's contribution to a scalar charge density
// on the physical grid by CIC, weighted by the sign of MQ and each
// particle's W (the same charge Push deposits as current).
func (s *Species) Charge() [][]float64 {
	nx0, nx1 := s.g.Nx[grid.X], s.g.Nx[grid.Y]
	out := make([][]float64, nx0)
	for i := range out {
		out[i] = make([]float64, nx1)
	}
	add := func(ix, iy int, v float64) {
		if ix < 0 {
			ix += nx0
		}
		if ix >= nx0 {
			ix -= nx0
		}
		if iy < 0 {
			iy += nx1
		}
		if iy >= nx1 {
			iy -= nx1
		}
		out[ix][iy] += v
	}
	for _, p := range s.Particles {
		if p.Removed() {
			continue
		}
		x, y := float64(p.X), float64(p.Y)
		q := math.Copysign(float64(p.W), s.MQ)
		ix, iy := int(p.Ix), int(p.Iy)
		add(ix, iy, q*(1-x)*(1-y))
		add(ix+1, iy, q*x*(1-y))
		add(ix, iy+1, q*(1-x)*y)
		add(ix+1, iy+1, q*x*y)
	}
	return out
}

// Quantity selects which per-particle scalar Phasespace bins.
type Quantity int

const (
	QX Quantity = iota
	QY
	QUx
	QUy
	QUz
)

func (s *Species) value(p Particle, q Quantity) float64 {
	switch q {
	case QX:
		return (float64(p.Ix) + float64(p.X)) * s.g.Dx[grid.X]
	case QY:
		return (float64(p.Iy) + float64(p.Y)) * s.g.Dx[grid.Y]
	case QUx:
		return p.Ux
	case QUy:
		return p.Uy
	default:
		return p.Uz
	}
}

// Phasespace bins q1 against q2 into an nx[0] x nx[1] histogram over
// rng[0] (for q1) and rng[1] (for q2), weighted by each particle's W.
func (s *Species) Phasespace(q1, q2 Quantity, nx [2]int, rng [2][2]float64) [][]float64 {
	out := make([][]float64, nx[0])
	for i := range out {
		out[i] = make([]float64, nx[1])
	}
	w0 := float64(nx[0]) / (rng[0][1] - rng[0][0])
	w1 := float64(nx[1]) / (rng[1][1] - rng[1][0])
	for _, p := range s.Particles {
		if p.Removed() {
			continue
		}
		v1 := s.value(p, q1)
		v2 := s.value(p, q2)
		i0 := int((v1 - rng[0][0]) * w0)
		i1 := int((v2 - rng[1][0]) * w1)
		if i0 < 0 || i0 >= nx[0] || i1 < 0 || i1 >= nx[1] {
			continue
		}
		out[i0][i1] += float64(p.W)
	}
	return out
}
