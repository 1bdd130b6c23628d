// Package laser injects a frozen-in-time plane or paraxial-Gaussian pulse
// into a field.EMF's self-consistent E/B buffers at t=0.
package laser

import (
	"math"

	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/vec"
)

// Kind selects the transverse profile of the pulse.
type Kind int

const (
	// Plane has no transverse variation: uniform across axis 1.
	Plane Kind = iota
	// Gaussian applies a paraxial waist profile in axis 1 centered on
	// FocusPos, held fixed along the propagation axis (no Rayleigh-range
	// diffraction is modeled; the pulse is injected once, at t=0, as an
	// initial condition rather than propagated through focus).
	Gaussian
)

// Laser describes a pulse launched along axis 0 (x) in +x direction with a
// sin²-ramped envelope, polarized at angle Pol in the (Ey, Ez) plane.
type Laser struct {
	Kind Kind

	A0     float64 // normalized vector-potential amplitude
	Omega0 float64 // carrier frequency, natural units c=1
	Pol    float64 // polarization angle, radians, 0 = pure Ey

	Start            float64 // physical x at which the envelope origin sits
	Rise, Flat, Fall float64 // sin² ramp widths; Flat may be zero

	W0       float64 // Gaussian waist (ignored for Plane)
	FocusPos float64 // transverse-axis center of the waist
}

// FromFWHM sets Rise and Fall both to fwhm and Flat to zero, the
// sin²-envelope approximation this engine uses whenever a pulse is
// specified by a single FWHM duration rather than explicit rise/flat/fall
// widths.
func (l *Laser) FromFWHM(fwhm float64) {
	l.Rise, l.Fall, l.Flat = fwhm, fwhm, 0
}

// envelope returns the sin² ramp value at local phase coordinate xi >= 0
// measured from the pulse's leading edge.
func (l *Laser) envelope(xi float64) float64 {
	switch {
	case xi < 0:
		return 0
	case xi < l.Rise:
		return math.Pow(math.Sin(math.Pi*xi/(2*l.Rise)), 2)
	case xi < l.Rise+l.Flat:
		return 1
	case xi < l.Rise+l.Flat+l.Fall:
		t := l.Rise + l.Flat + l.Fall - xi
		return math.Pow(math.Sin(math.Pi*t/(2*l.Fall)), 2)
	default:
		return 0
	}
}

// transverse returns the transverse-profile factor at physical coordinate
// y for axis 1.
func (l *Laser) transverse(y float64) float64 {
	if l.Kind != Gaussian || l.W0 <= 0 {
		return 1
	}
	d := y - l.FocusPos
	return math.Exp(-(d * d) / (l.W0 * l.W0))
}

// amplitude returns the scalar |E| at physical position (x, y), zero
// outside the pulse's rise+flat+fall support.
func (l *Laser) amplitude(x, y float64) float64 {
	xi := x - l.Start
	span := l.Rise + l.Flat + l.Fall
	if xi < 0 || xi > span {
		return 0
	}
	env := l.envelope(xi)
	if env == 0 {
		return 0
	}
	return l.A0 * l.Omega0 * env * l.transverse(y) * math.Cos(l.Omega0*xi)
}

// Inject satisfies field.Injector: it samples this pulse at every cell of
// e's grid (guard cells included, so the pulse is consistent across the
// boundary refresh that follows) and writes a +x-propagating plane wave,
// B = x_hat cross E, directly into e's self-consistent E and B buffers.
func (l *Laser) Inject(e *field.EMF) {
	g := e.Grid()
	nx0, nx1 := g.Nx[grid.X], g.Nx[grid.Y]
	gcx, gcy := g.GC[grid.X], g.GC[grid.Y]
	cosPol, sinPol := math.Cos(l.Pol), math.Sin(l.Pol)

	for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
		x := float64(ix) * g.Dx[grid.X]
		for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
			y := float64(iy) * g.Dx[grid.Y]
			amp := l.amplitude(x, y)
			if amp == 0 {
				continue
			}
			ey, ez := amp*cosPol, amp*sinPol
			by, bz := -ez, ey

			ev := e.E.At(ix, iy)
			ev.Y += ey
			ev.Z += ez
			e.E.Set(ix, iy, ev)

			bv := e.B.At(ix, iy)
			bv.Y += by
			bv.Z += bz
			e.B.Set(ix, iy, bv)
		}
	}
}

// Sample returns the (Ey, Ez) the pulse would inject at (x, y), used by
// the moving window to re-evaluate the analytic overlay on a freshly
// exposed right-edge column instead of re-running the full Inject pass.
func (l *Laser) Sample(x, y float64) vec.Vec3 {
	amp := l.amplitude(x, y)
	return vec.Vec3{Y: amp * math.Cos(l.Pol), Z: amp * math.Sin(l.Pol)}
}
