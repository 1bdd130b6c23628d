package species

// Particle is one macro-particle: cell-indexed position (ix, iy) plus the
// in-cell fractional offset (x, y) in [0,1), proper velocity (ux, uy, uz)
// = gamma*beta, and a statistical weight W carrying the number of physical
// particles the macro-particle represents.
//
// Ix == -1 is the sentinel for a removed particle (left an open boundary);
// Species.Sort compacts these out, so a removed slot's other fields are
// never read.
type Particle struct {
	Ix, Iy     int32
	X, Y       float32
	Ux, Uy, Uz float64
	W          float32
}

// Removed reports whether p has left the domain through an open boundary
// and is pending compaction.
func (p Particle) Removed() bool { return p.Ix < 0 }
