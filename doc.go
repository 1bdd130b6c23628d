// Package empic2d is a 2D, fully relativistic, electromagnetic
// Particle-in-Cell simulation engine. It couples a population of charged
// macro-particles to electric and magnetic fields discretized on a
// staggered Yee grid through a self-consistent leapfrog time integration:
// particles are pushed by interpolated fields, deposit current on the
// grid, and the fields are advanced by that current.
package empic2d
