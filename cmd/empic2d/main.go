// Command empic2d runs a test case described by a gcfg configuration
// file. Flag handling, profiling and fatal-error reporting follow
// main/main.go's pattern: a small set of mutually exclusive top-level
// flags, runtime/pprof wrapping the run when requested, log.Fatal on any
// setup failure.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/lindgren-plasma/empic2d"
	"github.com/lindgren-plasma/empic2d/config"
	"github.com/lindgren-plasma/empic2d/laser"
	"github.com/lindgren-plasma/empic2d/prng"
	"github.com/lindgren-plasma/empic2d/profile"
	"github.com/lindgren-plasma/empic2d/species"
	"github.com/lindgren-plasma/empic2d/vec"
)

func main() {
	var (
		configFile    string
		exampleConfig bool
		profileFile   string
		particleFile  string
	)
	flag.StringVar(&configFile, "Config", "", "Test case configuration file.")
	flag.BoolVar(&exampleConfig, "ExampleConfig", false, "Print an example configuration file to stdout and exit.")
	flag.StringVar(&profileFile, "Profile", "", "If set, write a runtime/pprof CPU profile of the run to this file.")
	flag.StringVar(&particleFile, "Particles", "", "Optional table file (x y ux uy uz columns) overriding the first species' profile-based loading.")
	flag.Parse()

	if exampleConfig {
		fmt.Println(config.ExampleFile)
		return
	}

	if configFile == "" {
		args := flag.Args()
		if len(args) != 1 {
			log.Fatal("usage: empic2d -Config <file> | <test-case-file>")
		}
		configFile = args[0]
	}

	tc, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	if profileFile != "" {
		f, err := os.Create(profileFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	sim, specs, profiles, err := build(tc)
	if err != nil {
		log.Fatal(err)
	}

	if particleFile != "" {
		if err := loadParticleFile(particleFile, specs[0]); err != nil {
			log.Fatal(err)
		}
	}

	report := func(s *empic2d.Simulation) {
		if s.N()%100 == 0 {
			log.Printf("step %d  t=%.4f", s.N(), s.T())
		}
	}
	sim.SetReport(report)
	_ = profiles

	if err := sim.Run(1e9); err != nil {
		log.Fatal(err)
	}
}

// build assembles a Simulation, its species and their loading profiles
// from a validated TestCase configuration.
func build(tc *config.TestCase) (*empic2d.Simulation, []*species.Species, []profile.Profile, error) {
	nx := [2]int{tc.Grid.Nx0, tc.Grid.Nx1}
	box := [2]float64{float64(tc.Grid.Nx0) * tc.Grid.Dx0, float64(tc.Grid.Nx1) * tc.Grid.Dx1}
	periodic := [2]bool{tc.Grid.PeriodicX, tc.Grid.PeriodicY}

	sim, err := empic2d.NewSimulation(nx, box, tc.Grid.Dt, periodic, nil, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	seed1, seed2 := tc.Grid.Seed1, tc.Grid.Seed2
	if seed1 == 0 && seed2 == 0 {
		seed1, seed2 = 12345, 67890
	}
	rng := prng.NewGenerator(seed1, seed2)

	var specs []*species.Species
	var profiles []profile.Profile
	for _, name := range sortedKeys(tc.Species) {
		sc := tc.Species[name]
		p, err := buildProfile(sc)
		if err != nil {
			return nil, nil, nil, err
		}
		bnd := [2]species.Boundary{boundaryOf(sc.BoundaryX), boundaryOf(sc.BoundaryY)}
		sp := species.New(
			sim.Grid(), sc.MQ, [2]int{sc.Ppc0, sc.Ppc1},
			vec.Vec3{X: sc.Ufl0, Y: sc.Ufl1, Z: sc.Ufl2},
			vec.Vec3{X: sc.Uth0, Y: sc.Uth1, Z: sc.Uth2},
			bnd, sc.NSort, rng,
		)
		sp.Init(p)
		specs = append(specs, sp)
		profiles = append(profiles, p)
	}
	sim.SetSpecies(specs)

	sim.SetSmooth(tc.Smooth.XLevel, tc.Smooth.YLevel, tc.Smooth.Compensated)
	if tc.Window.Enabled {
		sim.SetMovingWindow(profiles)
	}

	for _, name := range sortedLaserKeys(tc.Laser) {
		lc := tc.Laser[name]
		l := &laser.Laser{
			A0: lc.A0, Omega0: lc.Omega0, Pol: lc.Pol, Start: lc.Start,
			Rise: lc.Rise, Flat: lc.Flat, Fall: lc.Fall,
			W0: lc.W0, FocusPos: lc.FocusPos,
		}
		if lc.Kind == "Gaussian" || lc.Kind == "gaussian" {
			l.Kind = laser.Gaussian
		}
		if lc.FWHM > 0 {
			l.FromFWHM(lc.FWHM)
		}
		sim.AddLaser(l)
	}

	return sim, specs, profiles, nil
}

func buildProfile(sc *config.SpeciesConfig) (profile.Profile, error) {
	switch strings.ToLower(sc.Profile) {
	case "uniform":
		return profile.Uniform{N: sc.ProfileN}, nil
	case "step":
		return profile.Step{N: sc.ProfileN, Start: sc.ProfileStart}, nil
	case "slab":
		return profile.Slab{N: sc.ProfileN, Start: sc.ProfileStart, End: sc.ProfileEnd}, nil
	case "ramp":
		return profile.Ramp{N: sc.ProfileN, Start: sc.ProfileStart, End: sc.ProfileEnd, Ramp: sc.ProfileRamp}, nil
	}
	return nil, fmt.Errorf("empic2d: unreachable: unvalidated profile kind %q", sc.Profile)
}

func boundaryOf(s string) species.Boundary {
	switch s {
	case "Open", "open":
		return species.Open
	case "None", "none":
		return species.None
	default:
		return species.Periodic
	}
}

func sortedKeys(m map[string]*config.SpeciesConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

func sortedLaserKeys(m map[string]*config.LaserConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// loadParticleFile overrides sp's population with one read from a table
// file of x, y, ux, uy, uz columns, grounded on render/halo/io.go's
// table.ReadTable(file, colIdxs, nil) usage for reading tabular physical
// data; it gives a test case a way to reproduce an exact particle
// distribution captured from an external tool instead of one resampled
// from a density profile.
func loadParticleFile(path string, sp *species.Species) error {
	cols, err := table.ReadTable(path, []int{0, 1, 2, 3, 4}, nil)
	if err != nil {
		return fmt.Errorf("empic2d: reading particle table %s: %w", path, err)
	}
	xs, ys, uxs, uys, uzs := cols[0], cols[1], cols[2], cols[3], cols[4]
	sp.Particles = sp.Particles[:0]
	for i := range xs {
		ix := int32(xs[i])
		iy := int32(ys[i])
		sp.Particles = append(sp.Particles, species.Particle{
			Ix: ix, Iy: iy,
			X: float32(xs[i] - float64(ix)), Y: float32(ys[i] - float64(iy)),
			Ux: uxs[i], Uy: uys[i], Uz: uzs[i],
			W: 1,
		})
	}
	return nil
}
