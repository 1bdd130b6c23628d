package field

import "github.com/lindgren-plasma/empic2d/vec"

// yeeOffsetE and yeeOffsetB return the (ox, oy) fractional offset within a
// cell at which component c (0=X, 1=Y, 2=Z) is sampled, under the
// self-consistent Yee layout documented on EMF.curlBHalfStep: Ex(i+1/2,j),
// Ey(i,j+1/2), Ez(i,j); Bx(i,j+1/2), By(i+1/2,j), Bz(i+1/2,j+1/2).
func yeeOffsetE(c int) (float64, float64) {
	switch c {
	case 0:
		return 0.5, 0
	case 1:
		return 0, 0.5
	default:
		return 0, 0
	}
}

func yeeOffsetB(c int) (float64, float64) {
	switch c {
	case 0:
		return 0, 0.5
	case 1:
		return 0.5, 0
	default:
		return 0.5, 0.5
	}
}

func component(v vec.Vec3, c int) float64 {
	switch c {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// interpolateScalar performs a linear (CIC) interpolation of one
// component of buf at the continuous position (ix+x, iy+y), shifting by
// the component's Yee offset first so the four sample points actually
// bracket that component's staggered location.
func interpolateScalar(buf *Buffer, ix, iy int, x, y, ox, oy float64, c int) float64 {
	xs, ys := x-ox, y-oy
	jx, jy := ix, iy
	if xs < 0 {
		xs++
		jx--
	}
	if ys < 0 {
		ys++
		jy--
	}
	f00 := component(buf.At(jx, jy), c)
	f10 := component(buf.At(jx+1, jy), c)
	f01 := component(buf.At(jx, jy+1), c)
	f11 := component(buf.At(jx+1, jy+1), c)
	return f00*(1-xs)*(1-ys) + f10*xs*(1-ys) + f01*(1-xs)*ys + f11*xs*ys
}

// interpolateVec3 interpolates all three components of buf at (ix+x,
// iy+y), each at the offset the offsetFn assigns it.
func interpolateVec3(buf *Buffer, ix, iy int, x, y float64, offsetFn func(int) (float64, float64)) vec.Vec3 {
	var out vec.Vec3
	for c := 0; c < 3; c++ {
		ox, oy := offsetFn(c)
		val := interpolateScalar(buf, ix, iy, x, y, ox, oy, c)
		switch c {
		case 0:
			out.X = val
		case 1:
			out.Y = val
		case 2:
			out.Z = val
		}
	}
	return out
}
