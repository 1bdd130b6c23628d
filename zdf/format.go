// Package zdf writes the engine's self-describing diagnostic dump format:
// a fixed binary header (magic, version, record kind, iteration, sim time,
// per-axis metadata, shape) followed by a raw little-endian float32
// payload. Adapted from catalog.Header's fixed-size-struct-plus-raw-payload
// layout and catalog.ReadGadget's readInt32/binary.Read sequencing, which
// this package mirrors for writing instead of reading.
package zdf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic identifies a zdf record; Version is bumped whenever the fixed
// header layout below changes incompatibly.
const (
	Magic   uint32 = 0x5a444631 // "ZDF1"
	Version uint32 = 1
)

// Kind tags which of the four record shapes follows the fixed header.
type Kind uint32

const (
	KindScalarGrid Kind = iota
	KindVectorGrid
	KindParticleList
	KindPhasespace
)

// Axis carries one axis's label/units/range metadata, fixed-width so it
// can be read back without a length prefix.
type Axis struct {
	Label [16]byte
	Units [16]byte
	Min   float64
	Max   float64
}

// NewAxis truncates label/units to fit Axis's fixed-width fields.
func NewAxis(label, units string, min, max float64) Axis {
	a := Axis{Min: min, Max: max}
	copy(a.Label[:], label)
	copy(a.Units[:], units)
	return a
}

// header is the fixed-size record preamble written before any payload.
// Component is meaningful only for KindVectorGrid (0=x, 1=y, 2=z).
type header struct {
	Magic     uint32
	Version   uint32
	Kind      uint32
	Component int32
	Iter      int64
	Time      float64
	NDim      int32
	_         int32 // padding to keep Shape 8-byte aligned
	Shape     [2]int64
}

// writeHeader emits the fixed header plus ndim Axis records.
func writeHeader(w io.Writer, kind Kind, component int, iter int, t float64, shape [2]int, axes []Axis) error {
	h := header{
		Magic: Magic, Version: Version, Kind: uint32(kind),
		Component: int32(component), Iter: int64(iter), Time: t,
		NDim: int32(len(axes)), Shape: [2]int64{int64(shape[0]), int64(shape[1])},
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("zdf: write header: %w", err)
	}
	for _, a := range axes {
		if err := binary.Write(w, binary.LittleEndian, &a); err != nil {
			return fmt.Errorf("zdf: write axis: %w", err)
		}
	}
	return nil
}

// WriteScalarGrid writes a 2D float array (nx0 x nx1, row-major in axis 0)
// as a scalar-grid record.
func WriteScalarGrid(w io.Writer, iter int, t float64, data [][]float64, axes []Axis) error {
	if len(data) == 0 {
		return fmt.Errorf("zdf: scalar grid has no rows")
	}
	shape := [2]int{len(data), len(data[0])}
	if err := writeHeader(w, KindScalarGrid, 0, iter, t, shape, axes); err != nil {
		return err
	}
	return writeRows(w, data)
}

// WriteVectorGrid writes one component (0, 1 or 2) of a vector grid as a
// scalar-grid-shaped record tagged with its component index.
func WriteVectorGrid(w io.Writer, iter int, t float64, component int, data [][]float64, axes []Axis) error {
	if len(data) == 0 {
		return fmt.Errorf("zdf: vector grid has no rows")
	}
	shape := [2]int{len(data), len(data[0])}
	if err := writeHeader(w, KindVectorGrid, component, iter, t, shape, axes); err != nil {
		return err
	}
	return writeRows(w, data)
}

// WritePhasespace writes a 2D histogram the same way as a scalar grid, the
// only difference being the Kind tag so a reader knows the axes are
// phasespace coordinates rather than physical grid positions.
func WritePhasespace(w io.Writer, iter int, t float64, data [][]float64, axes []Axis) error {
	if len(data) == 0 {
		return fmt.Errorf("zdf: phasespace has no rows")
	}
	shape := [2]int{len(data), len(data[0])}
	if err := writeHeader(w, KindPhasespace, 0, iter, t, shape, axes); err != nil {
		return err
	}
	return writeRows(w, data)
}

func writeRows(w io.Writer, data [][]float64) error {
	row := make([]float32, len(data[0]))
	for _, r := range data {
		for i, v := range r {
			row[i] = float32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("zdf: write payload: %w", err)
		}
	}
	return nil
}

// ParticleField is one flat array of a particle list, named by its Name
// for the field catalog written just after the fixed header (e.g. "ix",
// "x", "ux").
type ParticleField struct {
	Name string
	Vals []float32
}

// WriteParticleList writes n particles' worth of named flat float32
// arrays as a particle-list record: a field count, then each field's
// name length + name + raw payload.
func WriteParticleList(w io.Writer, iter int, t float64, fields []ParticleField) error {
	n := 0
	if len(fields) > 0 {
		n = len(fields[0].Vals)
	}
	if err := writeHeader(w, KindParticleList, 0, iter, t, [2]int{n, len(fields)}, nil); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(fields))); err != nil {
		return fmt.Errorf("zdf: write field count: %w", err)
	}
	for _, f := range fields {
		if len(f.Vals) != n {
			return fmt.Errorf("zdf: field %q has %d values, want %d", f.Name, len(f.Vals), n)
		}
		nameBytes := []byte(f.Name)
		if err := binary.Write(w, binary.LittleEndian, int32(len(nameBytes))); err != nil {
			return fmt.Errorf("zdf: write field name length: %w", err)
		}
		if _, err := w.Write(nameBytes); err != nil {
			return fmt.Errorf("zdf: write field name: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, f.Vals); err != nil {
			return fmt.Errorf("zdf: write field payload: %w", err)
		}
	}
	return nil
}
