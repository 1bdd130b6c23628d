// Package field owns the Yee-staggered E and B buffers, the leapfrog
// advance, the external-field overlay and laser injection.
package field

import (
	"github.com/lindgren-plasma/empic2d/grid"
	"github.com/lindgren-plasma/empic2d/vec"
)

// Buffer is a 3-vector field over the guard-cell-extended grid. A single
// Vec3 per array index packs Ex/Ey/Ez (or Bx/By/Bz) together even though
// each component is sampled at a different Yee-staggered physical point;
// this is the conventional struct-of-three-floats layout used by Yee-FDTD
// field solvers, grounded here on geom.Grid's origin-relative Idx/
// BoundsCheck indexing in geom/grid.go, extended with a guard-cell offset.
type Buffer struct {
	g      *grid.Grid
	nrow   int
	shape  [2]int
	origin [2]int
	Vals   []vec.Vec3
}

// NewBuffer allocates a zeroed buffer sized to g's guard-cell extent.
func NewBuffer(g *grid.Grid) *Buffer {
	shape := g.Shape()
	return &Buffer{
		g:      g,
		nrow:   shape[grid.X],
		shape:  shape,
		origin: [2]int{g.GC[grid.X][grid.Lo], g.GC[grid.Y][grid.Lo]},
		Vals:   make([]vec.Vec3, shape[grid.X]*shape[grid.Y]),
	}
}

// index converts a physical-or-guard cell coordinate into a flat offset.
func (b *Buffer) index(ix, iy int) int {
	return (iy+b.origin[grid.Y])*b.nrow + (ix + b.origin[grid.X])
}

// At returns the value stored at (ix, iy), where (0,0) is the first
// physical cell; negative indices and indices >= Nx reach into guard
// cells.
func (b *Buffer) At(ix, iy int) vec.Vec3 { return b.Vals[b.index(ix, iy)] }

// Set overwrites the value at (ix, iy).
func (b *Buffer) Set(ix, iy int, v vec.Vec3) { b.Vals[b.index(ix, iy)] = v }

// Add accumulates v into the value at (ix, iy).
func (b *Buffer) Add(ix, iy int, v vec.Vec3) {
	i := b.index(ix, iy)
	b.Vals[i] = b.Vals[i].Add(v)
}

// Zero resets every value, including guard cells, to the zero vector.
func (b *Buffer) Zero() {
	for i := range b.Vals {
		b.Vals[i] = vec.Vec3{}
	}
}

// Grid returns the grid geometry this buffer was built from.
func (b *Buffer) Grid() *grid.Grid { return b.g }

// Physical returns the X, Y and Z components as nx0 x nx1 arrays with
// guard cells hidden, matching the read interface spec.md §6 promises
// callers.
func (b *Buffer) Physical() (x, y, z [][]float64) {
	nx0, nx1 := b.g.Nx[grid.X], b.g.Nx[grid.Y]
	x = make([][]float64, nx0)
	y = make([][]float64, nx0)
	z = make([][]float64, nx0)
	for i := 0; i < nx0; i++ {
		x[i] = make([]float64, nx1)
		y[i] = make([]float64, nx1)
		z[i] = make([]float64, nx1)
		for j := 0; j < nx1; j++ {
			v := b.At(i, j)
			x[i][j], y[i][j], z[i][j] = v.X, v.Y, v.Z
		}
	}
	return x, y, z
}

// ApplyBoundary refreshes guard cells along both axes according to the
// grid's periodicity: periodic axes copy from the opposite physical edge,
// open axes hold the nearest physical value (a first-order outflow
// condition cheap enough to serve as the non-periodic default; the
// Mur-style absorbing refresh used by field.EMF for E/B lives in emf.go
// since it needs the previous time level, which a bare buffer doesn't
// track).
func (b *Buffer) ApplyBoundary() {
	nx0, nx1 := b.g.Nx[grid.X], b.g.Nx[grid.Y]
	gcx := b.g.GC[grid.X]
	gcy := b.g.GC[grid.Y]

	if b.g.Periodic[grid.X] {
		for off := 1; off <= gcx[grid.Lo]; off++ {
			for j := -gcy[grid.Lo]; j < nx1+gcy[grid.Hi]; j++ {
				b.Set(-off, j, b.At(nx0-off, j))
			}
		}
		for off := 0; off < gcx[grid.Hi]; off++ {
			for j := -gcy[grid.Lo]; j < nx1+gcy[grid.Hi]; j++ {
				b.Set(nx0+off, j, b.At(off, j))
			}
		}
	} else {
		for off := 1; off <= gcx[grid.Lo]; off++ {
			for j := -gcy[grid.Lo]; j < nx1+gcy[grid.Hi]; j++ {
				b.Set(-off, j, b.At(0, j))
			}
		}
		for off := 0; off < gcx[grid.Hi]; off++ {
			for j := -gcy[grid.Lo]; j < nx1+gcy[grid.Hi]; j++ {
				b.Set(nx0+off, j, b.At(nx0-1, j))
			}
		}
	}

	if b.g.Periodic[grid.Y] {
		for off := 1; off <= gcy[grid.Lo]; off++ {
			for i := -gcx[grid.Lo]; i < nx0+gcx[grid.Hi]; i++ {
				b.Set(i, -off, b.At(i, nx1-off))
			}
		}
		for off := 0; off < gcy[grid.Hi]; off++ {
			for i := -gcx[grid.Lo]; i < nx0+gcx[grid.Hi]; i++ {
				b.Set(i, nx1+off, b.At(i, off))
			}
		}
	} else {
		for off := 1; off <= gcy[grid.Lo]; off++ {
			for i := -gcx[grid.Lo]; i < nx0+gcx[grid.Hi]; i++ {
				b.Set(i, -off, b.At(i, 0))
			}
		}
		for off := 0; off < gcy[grid.Hi]; off++ {
			for i := -gcx[grid.Lo]; i < nx0+gcx[grid.Hi]; i++ {
				b.Set(i, nx1+off, b.At(i, nx1-1))
			}
		}
	}
}

// ShiftLeft rotates the buffer one cell to the left along axis X, as an
// in-place index rotation rather than a reallocation: physical column 0
// is discarded, every other physical column moves down by one, and the
// newly exposed right-edge physical column (together with the upper guard
// columns) is left zeroed for the caller to repopulate. Grounded on box.go/workspace.go's Overlap/Workspace
// abstraction, which shifts a sub-region of a grid between two
// CellBounds without ever reallocating the backing array.
func (b *Buffer) ShiftLeft() {
	nx0, nx1 := b.g.Nx[grid.X], b.g.Nx[grid.Y]
	gcx := b.g.GC[grid.X]
	gcy := b.g.GC[grid.Y]
	for ix := -gcx[grid.Lo]; ix < nx0+gcx[grid.Hi]-1; ix++ {
		for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
			b.Set(ix, iy, b.At(ix+1, iy))
		}
	}
	for ix := nx0 - 1; ix < nx0+gcx[grid.Hi]; ix++ {
		for iy := -gcy[grid.Lo]; iy < nx1+gcy[grid.Hi]; iy++ {
			b.Set(ix, iy, vec.Vec3{})
		}
	}
}
