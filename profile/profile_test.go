package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniform(t *testing.T) {
	u := Uniform{N: 2.5}
	assert.Equal(t, 2.5, u.Density(0, 0))
	assert.Equal(t, 2.5, u.Density(100, -3))
}

func TestStep(t *testing.T) {
	s := Step{N: 1, Start: 5}
	assert.Equal(t, 0.0, s.Density(4.9, 0))
	assert.Equal(t, 1.0, s.Density(5, 0))
}

func TestSlab(t *testing.T) {
	s := Slab{N: 1, Start: 5, End: 10}
	assert.Equal(t, 0.0, s.Density(4.9, 0))
	assert.Equal(t, 1.0, s.Density(7, 0))
	assert.Equal(t, 0.0, s.Density(10, 0))
}

func TestRamp(t *testing.T) {
	r := Ramp{N: 2, Start: 0, End: 10, Ramp: 4}
	assert.Equal(t, 0.0, r.Density(0, 0))
	assert.InDelta(t, 1.0, r.Density(2, 0), 1e-9)
	assert.Equal(t, 2.0, r.Density(4, 0))
	assert.Equal(t, 2.0, r.Density(9, 0))
	assert.Equal(t, 0.0, r.Density(10, 0))
}

func TestValidateRejectsInvertedRange(t *testing.T) {
	assert.Error(t, Validate(Slab{N: 1, Start: 10, End: 5}))
	assert.Error(t, Validate(Ramp{N: 1, Start: 10, End: 5, Ramp: 1}))
	assert.NoError(t, Validate(Uniform{N: 1}))
}

func TestCustomIsPure(t *testing.T) {
	calls := 0
	c := Custom{Fn: func(x, y float64) float64 {
		calls++
		return x + y
	}}
	assert.Equal(t, 3.0, c.Density(1, 2))
	assert.Equal(t, 1, calls)
}
