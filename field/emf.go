package field

import (
	"fmt"

	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/vec"
)

// CurrentSource is the read view EMF needs of the shared current buffer.
// Defined here instead of importing the current package so that field
// never depends on current (current imports field for its Buffer type, so
// the reverse import would be a cycle); current.Current implements this
// by forwarding to its own J buffer.
type CurrentSource interface {
	At(ix, iy int) vec.Vec3
}

// ReportKind selects which quantity Report renders.
type ReportKind int

const (
	ReportE ReportKind = iota
	ReportB
)

// Injector is implemented by anything that can add its field contribution
// into an EMF at construction time, e.g. laser.Laser. Defined here (rather
// than imported from the laser package) so field never has to import
// laser; laser imports field instead, matching the dependency order in
// SPEC_FULL.md §2 ("Laser depends on Field").
type Injector interface {
	Inject(e *EMF)
}

// EdgeSampler is implemented by anything that can re-evaluate its field
// contribution at an arbitrary physical position, e.g. laser.Laser. The
// window package uses this to re-seed a moving window's freshly exposed
// right-edge column from the analytic pulse envelope instead of leaving
// it zeroed, per spec.md §4.5 ("the newly exposed column is re-evaluated
// from the user-supplied analytic function"). Defined here for the same
// reason as Injector: keeps field (and window, which only imports field)
// free of a direct dependency on laser.
type EdgeSampler interface {
	Sample(x, y float64) vec.Vec3
}

// murState carries the previous-step part of a first-order Mur absorbing
// update on one axis of one buffer, F_interior(n) - coef*F_guard(n), one
// slice per edge (lo/hi), indexed by position along the other axis.
type murState struct {
	lo, hi []vec.Vec3
}

// EMF owns the self-consistent E and B Yee buffers plus an optional frozen
// external overlay. Between calls to Advance, E and B are both stored at
// the same integer time level n; inside Advance B passes through n+1/2,
// which is the level the E update reads it at.
type EMF struct {
	g *grid.Grid

	E, B *Buffer

	hasExternal bool
	Eext, Bext  *Buffer

	murE, murB [2]murState // indexed by axis
}

// New allocates a zeroed EMF over g.
func New(g *grid.Grid) *EMF {
	return &EMF{
		g: g,
		E: NewBuffer(g),
		B: NewBuffer(g),
	}
}

// SetExternal installs a frozen uniform external E0/B0 overlay. The
// overlay is never touched by Advance; it is summed into EPart/BPart on
// every read, matching the "keep it out of the field advance" design note
// in SPEC_FULL.md §4.1.
func (e *EMF) SetExternal(e0, b0 vec.Vec3) {
	e.hasExternal = true
	e.Eext = NewBuffer(e.g)
	e.Bext = NewBuffer(e.g)
	nx0, nx1 := e.g.Nx[grid.X], e.g.Nx[grid.Y]
	gcx, gcy := e.g.GC[grid.X], e.g.GC[grid.Y]
	for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
		for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
			e.Eext.Set(ix, iy, e0)
			e.Bext.Set(ix, iy, b0)
		}
	}
}

// AddLaser asks inj to deposit its contribution into e's self-consistent
// E/B buffers. Laser pulses are injected at t=0 as an initial condition,
// per spec.md §4.1.
func (e *EMF) AddLaser(inj Injector) { inj.Inject(e) }

// EPart and BPart return the particle-facing field at the continuous
// in-cell position (ix+x, iy+y): self-consistent plus external (if any
// overlay is installed), each component bilinearly interpolated at its
// own Yee-staggered offset. This is what species.Species.Push calls to
// feed the Boris rotation.
func (e *EMF) EPart(ix, iy int, x, y float64) vec.Vec3 {
	v := interpolateVec3(e.E, ix, iy, x, y, yeeOffsetE)
	if e.hasExternal {
		v = v.Add(interpolateVec3(e.Eext, ix, iy, x, y, yeeOffsetE))
	}
	return v
}

func (e *EMF) BPart(ix, iy int, x, y float64) vec.Vec3 {
	v := interpolateVec3(e.B, ix, iy, x, y, yeeOffsetB)
	if e.hasExternal {
		v = v.Add(interpolateVec3(e.Bext, ix, iy, x, y, yeeOffsetB))
	}
	return v
}

// Advance performs one Yee leapfrog step: half-B, full-E (driven by the
// deposited current), half-B, then refreshes guard cells. Natural units,
// mu0 = eps0 = c = 1.
func (e *EMF) Advance(cur CurrentSource, dt float64) {
	e.curlBHalfStep(dt / 2)
	e.eFullStep(cur, dt)
	e.curlBHalfStep(dt / 2)
	e.applyBoundary()
}

// curlBHalfStep applies B <- B - halfDt * curl(E) on the interior,
// following the self-consistent Yee offsets Ex(i+1/2,j), Ey(i,j+1/2),
// Ez(i,j); Bx(i,j+1/2), By(i+1/2,j), Bz(i+1/2,j+1/2). (DESIGN.md notes
// that the distilled spec's prose lists Ez and Bz with swapped offsets;
// this is the self-dual arrangement that makes the two curl stencils
// below exact centered differences.)
func (e *EMF) curlBHalfStep(halfDt float64) {
	nx0, nx1 := e.g.Nx[grid.X], e.g.Nx[grid.Y]
	idx, idy := 1/e.g.Dx[grid.X], 1/e.g.Dx[grid.Y]
	E := e.E

	for ix := 0; ix < nx0; ix++ {
		for iy := 0; iy < nx1; iy++ {
			ez0 := E.At(ix, iy).Z
			ez1y := E.At(ix, iy+1).Z
			ez1x := E.At(ix+1, iy).Z
			ex0 := E.At(ix, iy).X
			ex1y := E.At(ix, iy+1).X
			ey0 := E.At(ix, iy).Y
			ey1x := E.At(ix+1, iy).Y

			curlEx := (ez1y - ez0) * idy
			curlEy := -(ez1x - ez0) * idx
			curlEz := (ey1x-ey0)*idx - (ex1y-ex0)*idy

			b := e.B.At(ix, iy)
			b.X -= halfDt * curlEx
			b.Y -= halfDt * curlEy
			b.Z -= halfDt * curlEz
			e.B.Set(ix, iy, b)
		}
	}
}

// eFullStep applies E <- E + dt*(curl(B) - J) on the interior.
func (e *EMF) eFullStep(cur CurrentSource, dt float64) {
	nx0, nx1 := e.g.Nx[grid.X], e.g.Nx[grid.Y]
	idx, idy := 1/e.g.Dx[grid.X], 1/e.g.Dx[grid.Y]
	B := e.B

	for ix := 0; ix < nx0; ix++ {
		for iy := 0; iy < nx1; iy++ {
			bz0 := B.At(ix, iy).Z
			bz1ym := B.At(ix, iy-1).Z
			bz1xm := B.At(ix-1, iy).Z
			bx0 := B.At(ix, iy).X
			bx1ym := B.At(ix, iy-1).X
			by0 := B.At(ix, iy).Y
			by1xm := B.At(ix-1, iy).Y

			curlBx := (bz0 - bz1ym) * idy
			curlBy := -(bz0 - bz1xm) * idx
			curlBz := (by0-by1xm)*idx - (bx0-bx1ym)*idy

			j := cur.At(ix, iy)
			v := e.E.At(ix, iy)
			v.X += dt * (curlBx - j.X)
			v.Y += dt * (curlBy - j.Y)
			v.Z += dt * (curlBz - j.Z)
			e.E.Set(ix, iy, v)
		}
	}
}

// applyBoundary refreshes guard cells: periodic axes wrap, open axes
// first get the clamp ApplyBoundary applies to every axis uniformly and
// then, on the axes that are actually open, have that clamp overwritten
// by a first-order Mur absorbing condition on the lowest-order outgoing
// characteristic (the clamp must run first — absorbGuardCells only
// rewrites the single guard cell immediately adjacent to the physical
// edge, not the full guard width ApplyBoundary fills). Moving-window
// axes are refreshed by the window package after Advance returns (it
// owns the right-edge analytic re-evaluation).
func (e *EMF) applyBoundary() {
	e.E.ApplyBoundary()
	e.B.ApplyBoundary()
	if e.g.Periodic[grid.X] && e.g.Periodic[grid.Y] {
		return
	}
	e.absorbGuardCells(e.E, &e.murE)
	e.absorbGuardCells(e.B, &e.murB)
}

// absorbGuardCells applies the Mur absorbing update to buf's guard cells
// on every non-periodic axis, using mur to carry each edge's previous-step
// interior and guard values between calls.
func (e *EMF) absorbGuardCells(buf *Buffer, mur *[2]murState) {
	if !e.g.Periodic[grid.X] {
		e.absorbAxis(buf, grid.X, &mur[grid.X])
	}
	if !e.g.Periodic[grid.Y] {
		e.absorbAxis(buf, grid.Y, &mur[grid.Y])
	}
}

// absorbAxis damps outgoing waves on axis using the one-way wave
// equation F_guard(n+1) = F_interior(n) + ((c*dt-dx)/(c*dt+dx)) *
// (F_interior(n+1) - F_guard(n)), evaluated on buf's edge-adjacent cell
// (c=1 in natural units) at both the lo and hi edge of axis.
func (e *EMF) absorbAxis(buf *Buffer, axis int, st *murState) {
	dx := e.g.Dx[axis]
	dt := e.g.Dt
	coef := (dt - dx) / (dt + dx)

	nx0, nx1 := e.g.Nx[grid.X], e.g.Nx[grid.Y]
	if axis == grid.X {
		if st.lo == nil {
			st.lo = make([]vec.Vec3, nx1)
			st.hi = make([]vec.Vec3, nx1)
		}
		for iy := 0; iy < nx1; iy++ {
			lo := buf.At(0, iy)
			hi := buf.At(nx0-1, iy)
			gLo, gHi := st.lo[iy].AddScaled(lo, coef), st.hi[iy].AddScaled(hi, coef)
			buf.Set(-1, iy, gLo)
			buf.Set(nx0, iy, gHi)
			st.lo[iy], st.hi[iy] = lo.AddScaled(gLo, -coef), hi.AddScaled(gHi, -coef)
		}
		return
	}

	if st.lo == nil {
		st.lo = make([]vec.Vec3, nx0)
		st.hi = make([]vec.Vec3, nx0)
	}
	for ix := 0; ix < nx0; ix++ {
		lo := buf.At(ix, 0)
		hi := buf.At(ix, nx1-1)
		gLo, gHi := st.lo[ix].AddScaled(lo, coef), st.hi[ix].AddScaled(hi, coef)
		buf.Set(ix, -1, gLo)
		buf.Set(ix, nx1, gHi)
		st.lo[ix], st.hi[ix] = lo.AddScaled(gLo, -coef), hi.AddScaled(gHi, -coef)
	}
}

// Energy returns the grid-integrated squared field components,
// (E2x, E2y, E2z, B2x, B2y, B2z), each summed over the physical domain
// and multiplied by the cell volume.
func (e *EMF) Energy() [6]float64 {
	nx0, nx1 := e.g.Nx[grid.X], e.g.Nx[grid.Y]
	cellVol := e.g.Dx[grid.X] * e.g.Dx[grid.Y]
	var out [6]float64
	for ix := 0; ix < nx0; ix++ {
		for iy := 0; iy < nx1; iy++ {
			ev := e.E.At(ix, iy)
			bv := e.B.At(ix, iy)
			out[0] += ev.X * ev.X
			out[1] += ev.Y * ev.Y
			out[2] += ev.Z * ev.Z
			out[3] += bv.X * bv.X
			out[4] += bv.Y * bv.Y
			out[5] += bv.Z * bv.Z
		}
	}
	for i := range out {
		out[i] *= cellVol
	}
	return out
}

// Report renders one scalar component of E or B as a physical nx0 x nx1
// array, for consumption by the zdf scalar-grid writer.
func (e *EMF) Report(kind ReportKind, component int) ([][]float64, error) {
	var buf *Buffer
	switch kind {
	case ReportE:
		buf = e.E
	case ReportB:
		buf = e.B
	default:
		return nil, fmt.Errorf("field: unknown report kind %d", kind)
	}
	x, y, z := buf.Physical()
	switch component {
	case 0:
		return x, nil
	case 1:
		return y, nil
	case 2:
		return z, nil
	}
	return nil, fmt.Errorf("field: unknown component %d", component)
}

// Grid returns the grid geometry backing this EMF.
func (e *EMF) Grid() *grid.Grid { return e.g }
