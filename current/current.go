// Package current accumulates the deposited current density J on the
// same staggered grid as the fields, and applies boundary conditions and
// smoothing between deposition and the field advance.
package current

import (
	"github.com/lindgren-plasma/empic2d/field"
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/smooth"
	"github.com/lindgren-plasma/empic2d/vec"
)

// Current owns the J buffer and the smoothing configuration applied to it
// every step.
type Current struct {
	g *grid.Grid
	J *field.Buffer

	XLevel, YLevel int
	Compensated    bool
}

// New allocates a zeroed current buffer over g.
func New(g *grid.Grid) *Current {
	return &Current{g: g, J: field.NewBuffer(g)}
}

// At implements field.CurrentSource, letting field.EMF.Advance read J
// without current importing field's EMF (and without field importing
// current).
func (c *Current) At(ix, iy int) vec.Vec3 { return c.J.At(ix, iy) }

// Zero clears J, including guard cells, at the start of every step.
func (c *Current) Zero() { c.J.Zero() }

// SetSmooth configures the binomial/compensated smoothing pass that
// Update applies after the boundary exchange.
func (c *Current) SetSmooth(xlevel, ylevel int, compensated bool) {
	c.XLevel, c.YLevel = xlevel, ylevel
	c.Compensated = compensated
}

// Update applies boundary conditions to J (periodic wrap-add across the
// guard cells, or open truncation that simply drops out-of-domain
// contributions) and then the configured smoothing pass. The smoothing
// pass is the identity when XLevel == YLevel == 0, so J's interior then
// changes only where the boundary fold adds guard-cell deposits onto it.
func (c *Current) Update() {
	c.wrapBoundary()
	smooth.Apply(c.J, c.g, c.XLevel, c.YLevel, c.Compensated)
}

// wrapBoundary folds guard-cell deposits back onto the physical domain:
// periodic axes add the guard contribution onto the wrapped-around
// physical cell (current deposited just outside a periodic edge belongs
// to the cell on the opposite side); open axes simply discard it.
func (c *Current) wrapBoundary() {
	nx0, nx1 := c.g.Nx[grid.X], c.g.Nx[grid.Y]
	gcx, gcy := c.g.GC[grid.X], c.g.GC[grid.Y]

	if c.g.Periodic[grid.X] {
		for off := 1; off <= gcx[grid.Lo]; off++ {
			for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
				c.J.Add(nx0-off, iy, c.J.At(-off, iy))
				c.J.Set(-off, iy, vec.Vec3{})
			}
		}
		for off := 0; off < gcx[grid.Hi]; off++ {
			for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
				c.J.Add(off, iy, c.J.At(nx0+off, iy))
				c.J.Set(nx0+off, iy, vec.Vec3{})
			}
		}
	} else {
		for off := 1; off <= gcx[grid.Lo]; off++ {
			for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
				c.J.Set(-off, iy, vec.Vec3{})
			}
		}
		for off := 0; off < gcx[grid.Hi]; off++ {
			for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
				c.J.Set(nx0+off, iy, vec.Vec3{})
			}
		}
	}

	if c.g.Periodic[grid.Y] {
		for off := 1; off <= gcy[grid.Lo]; off++ {
			for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
				c.J.Add(ix, nx1-off, c.J.At(ix, -off))
				c.J.Set(ix, -off, vec.Vec3{})
			}
		}
		for off := 0; off < gcy[grid.Hi]; off++ {
			for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
				c.J.Add(ix, off, c.J.At(ix, nx1+off))
				c.J.Set(ix, nx1+off, vec.Vec3{})
			}
		}
	} else {
		for off := 1; off <= gcy[grid.Lo]; off++ {
			for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
				c.J.Set(ix, -off, vec.Vec3{})
			}
		}
		for off := 0; off < gcy[grid.Hi]; off++ {
			for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]; ix++ {
				c.J.Set(ix, nx1+off, vec.Vec3{})
			}
		}
	}
}

// DepositSegment adds one zigzag-split segment of a particle's motion to
// Jx, Jy and Jz at the four surrounding grid points, following the
// Villaseñor-Buneman charge-conserving weighting. ix0, iy0 is the cell the
// segment starts in; x0, y0, x1, y1 are the in-cell start/end positions
// of the segment (both in [0,1]); q is the macro-particle charge
// (species.MQ's sign times the deposited weight) and vz is the
// out-of-plane proper-velocity-over-gamma used for Jz's uniform in-plane
// weight, per spec.md §4.2.
func (c *Current) DepositSegment(ix0, iy0 int, x0, y0, x1, y1, q, vz float64) {
	dx := x1 - x0
	dy := y1 - y0

	wx := 0.5 * (x0 + x1)
	wy := 0.5 * (y0 + y1)

	jx := q * dx / c.g.Dt
	jy := q * dy / c.g.Dt
	jz := q * vz

	// Jx lives at the x-edges of the cell: weight by the complementary
	// y fraction between the two y-rows the segment spans.
	c.J.Add(ix0, iy0, vec.Vec3{X: jx * (1 - wy)})
	c.J.Add(ix0, iy0+1, vec.Vec3{X: jx * wy})

	// Jy lives at the y-edges: weight by the complementary x fraction.
	c.J.Add(ix0, iy0, vec.Vec3{Y: jy * (1 - wx)})
	c.J.Add(ix0+1, iy0, vec.Vec3{Y: jy * wx})

	// Jz (out-of-plane) uses full bilinear CIC weights at the mean
	// in-plane position, since it carries no time derivative of a
	// staggered position component.
	w00 := (1 - wx) * (1 - wy)
	w10 := wx * (1 - wy)
	w01 := (1 - wx) * wy
	w11 := wx * wy
	c.J.Add(ix0, iy0, vec.Vec3{Z: jz * w00})
	c.J.Add(ix0+1, iy0, vec.Vec3{Z: jz * w10})
	c.J.Add(ix0, iy0+1, vec.Vec3{Z: jz * w01})
	c.J.Add(ix0+1, iy0+1, vec.Vec3{Z: jz * w11})
}
