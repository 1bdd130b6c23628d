// Package grid owns the cell counts, cell sizes, physical box, guard-cell
// widths and periodicity shared by every grid-resident state object
// (fields, current, species).
package grid

import "fmt"

// Axis indices into the 2-element arrays used throughout this package.
const (
	X = 0
	Y = 1
)

// Edge indices into a GC[axis] pair.
const (
	Lo = 0
	Hi = 1
)

// Grid describes the discretized 2D domain: cell counts, cell size, the
// physical box they imply, guard-cell widths on each edge, periodicity and
// the leapfrog time step.
type Grid struct {
	Nx       [2]int
	Dx       [2]float64
	Box      [2]float64
	GC       [2][2]int
	Periodic [2]bool
	Dt       float64
}

// New builds a Grid from cell counts, cell size and time step, applying the
// guard-cell widths the deposition stencil requires (2 cells on every edge:
// a particle that crosses the upper edge during a push deposits its second
// zigzag segment up to two cells past the last physical cell) and
// validating the Courant condition.
//
// nx < 2 on either axis, a non-positive cell size, or a time step that
// violates c*dt < min(dx_i) (c=1 in natural units) are configuration
// errors reported to the caller rather than panics, matching the
// construction-time validation style of render/io/config.go's CheckInit
// methods.
func New(nx [2]int, dx [2]float64, dt float64, periodic [2]bool) (*Grid, error) {
	if nx[X] < 2 || nx[Y] < 2 {
		return nil, fmt.Errorf("grid: nx must be >= 2 on each axis, got %v", nx)
	}
	if dx[X] <= 0 || dx[Y] <= 0 {
		return nil, fmt.Errorf("grid: cell size must be positive, got %v", dx)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("grid: dt must be positive, got %g", dt)
	}
	minDx := dx[X]
	if dx[Y] < minDx {
		minDx = dx[Y]
	}
	if dt >= minDx {
		return nil, fmt.Errorf(
			"grid: dt=%g violates the Courant condition c*dt < min(dx)=%g",
			dt, minDx,
		)
	}

	g := &Grid{
		Nx:       nx,
		Dx:       dx,
		Dt:       dt,
		Periodic: periodic,
	}
	g.Box = [2]float64{float64(nx[X]) * dx[X], float64(nx[Y]) * dx[Y]}
	g.GC = [2][2]int{{2, 2}, {2, 2}}
	return g, nil
}

// Shape returns the extended (guard-cell-inclusive) array shape along each
// axis: GC[axis][Lo] + Nx[axis] + GC[axis][Hi].
func (g *Grid) Shape() [2]int {
	return [2]int{
		g.GC[X][Lo] + g.Nx[X] + g.GC[X][Hi],
		g.GC[Y][Lo] + g.Nx[Y] + g.GC[Y][Hi],
	}
}

// PMod computes the positive modulo x % n, wrapping a periodic cell index
// back into [0, n). Grounded on gotetra's types.go/geom.go compressCoords
// helper, which applies the same (x + n) % n trick to wrap tetrahedron
// corner indices around a periodic cosmological box.
func PMod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}

// InPhysicalRange reports whether (ix, iy) lies in [0,Nx[X]) x [0,Nx[Y]).
func (g *Grid) InPhysicalRange(ix, iy int) bool {
	return ix >= 0 && ix < g.Nx[X] && iy >= 0 && iy < g.Nx[Y]
}
