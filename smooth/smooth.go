// Package smooth implements the separable binomial current filter.
package smooth

import (
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/vec"
)

// Buffer is the minimal view Apply needs of a field.Buffer: get/set by
// physical-or-guard index, plus a boundary refresh between passes so each
// successive stencil pass sees correct guard cells. field.Buffer
// satisfies this without smooth importing field, keeping smooth a leaf
// package per SPEC_FULL.md §2's dependency order.
type Buffer interface {
	At(ix, iy int) vec.Vec3
	Set(ix, iy int, v vec.Vec3)
	ApplyBoundary()
}

// Apply runs xlevel binomial [1,2,1]/4 passes along axis 0 and ylevel
// passes along axis 1, each followed, in compensated mode, by one
// [-1,6,-1]/4 compensation pass. xlevel == ylevel == 0 is the identity,
// satisfying the smoothing idempotence property in SPEC_FULL.md §8.
func Apply(buf Buffer, g *grid.Grid, xlevel, ylevel int, compensated bool) {
	for i := 0; i < xlevel; i++ {
		pass(buf, g, grid.X, binomial)
	}
	if compensated && xlevel > 0 {
		pass(buf, g, grid.X, compensation)
	}
	for i := 0; i < ylevel; i++ {
		pass(buf, g, grid.Y, binomial)
	}
	if compensated && ylevel > 0 {
		pass(buf, g, grid.Y, compensation)
	}
}

// stencil returns the smoothed value at i given its three taps
// (i-1, i, i+1) along the active axis.
type stencil func(lo, mid, hi vec.Vec3) vec.Vec3

func binomial(lo, mid, hi vec.Vec3) vec.Vec3 {
	return lo.Scale(0.25).Add(mid.Scale(0.5)).Add(hi.Scale(0.25))
}

func compensation(lo, mid, hi vec.Vec3) vec.Vec3 {
	return lo.Scale(-0.25).Add(mid.Scale(1.5)).Add(hi.Scale(-0.25))
}

// pass applies one 1D stencil along axis to every physical cell, reading
// from a snapshot so that within one pass every output uses pre-pass
// input values.
func pass(buf Buffer, g *grid.Grid, axis int, st stencil) {
	buf.ApplyBoundary()
	nx0, nx1 := g.Nx[grid.X], g.Nx[grid.Y]

	if axis == grid.X {
		row := make([]vec.Vec3, nx0+2)
		for iy := 0; iy < nx1; iy++ {
			for ix := -1; ix <= nx0; ix++ {
				row[ix+1] = buf.At(ix, iy)
			}
			for ix := 0; ix < nx0; ix++ {
				buf.Set(ix, iy, st(row[ix], row[ix+1], row[ix+2]))
			}
		}
	} else {
		col := make([]vec.Vec3, nx1+2)
		for ix := 0; ix < nx0; ix++ {
			for iy := -1; iy <= nx1; iy++ {
				col[iy+1] = buf.At(ix, iy)
			}
			for iy := 0; iy < nx1; iy++ {
				buf.Set(ix, iy, st(col[iy], col[iy+1], col[iy+2]))
			}
		}
	}
}
