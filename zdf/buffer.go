package zdf

import (
	"io"

	"github.com/lindgren-plasma/empic2d/species"
)

// ParticleBuffer accumulates particle records and flushes them as a
// particle-list record once full, so a long-running simulation never
// holds the entire particle list in memory at write time. Adapted from
// catalog.ParticleBuffer's fixed-size-slice-plus-index-plus-auto-flush
// shape.
type ParticleBuffer struct {
	w    io.Writer
	iter int
	t    float64

	buf []species.Particle
	idx int
}

// NewParticleBuffer allocates a ParticleBuffer of capacity bufSize that
// writes records tagged with iter/t to w.
func NewParticleBuffer(w io.Writer, iter int, t float64, bufSize int) *ParticleBuffer {
	return &ParticleBuffer{w: w, iter: iter, t: t, buf: make([]species.Particle, bufSize)}
}

// Append adds one particle to the buffer, flushing automatically once it
// fills.
func (pb *ParticleBuffer) Append(p species.Particle) error {
	pb.buf[pb.idx] = p
	pb.idx++
	if pb.idx == len(pb.buf) {
		return pb.Flush()
	}
	return nil
}

// Flush writes whatever is currently buffered as one particle-list
// record and resets the buffer. A no-op if nothing is buffered.
func (pb *ParticleBuffer) Flush() error {
	if pb.idx == 0 {
		return nil
	}
	n := pb.idx
	ix := make([]float32, n)
	iy := make([]float32, n)
	x := make([]float32, n)
	y := make([]float32, n)
	ux := make([]float32, n)
	uy := make([]float32, n)
	uz := make([]float32, n)
	for i, p := range pb.buf[:n] {
		ix[i], iy[i] = float32(p.Ix), float32(p.Iy)
		x[i], y[i] = p.X, p.Y
		ux[i], uy[i], uz[i] = float32(p.Ux), float32(p.Uy), float32(p.Uz)
	}
	err := WriteParticleList(pb.w, pb.iter, pb.t, []ParticleField{
		{Name: "ix", Vals: ix}, {Name: "iy", Vals: iy},
		{Name: "x", Vals: x}, {Name: "y", Vals: y},
		{Name: "ux", Vals: ux}, {Name: "uy", Vals: uy}, {Name: "uz", Vals: uz},
	})
	pb.idx = 0
	return err
}
