package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCase(t *testing.T, body string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidTestCase(t *testing.T) {
	path := writeTestCase(t, `[Grid]
Nx0 = 16
Nx1 = 16
Dx0 = 0.1
Dx1 = 0.1
Dt = 0.05

[Species "electrons"]
MQ = -1
Ppc0 = 2
Ppc1 = 2
Profile = Uniform
ProfileN = 1.0
`)
	tc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, tc.Grid.Nx0)
	assert.True(t, tc.Grid.PeriodicX)
	sp := tc.Species["electrons"]
	require.NotNil(t, sp)
	assert.Equal(t, "Periodic", sp.BoundaryX)
}

func TestLoadRejectsCourantViolation(t *testing.T) {
	path := writeTestCase(t, `[Grid]
Nx0 = 16
Nx1 = 16
Dx0 = 0.1
Dx1 = 0.1
Dt = 0.2

[Species "electrons"]
MQ = -1
Ppc0 = 2
Ppc1 = 2
Profile = Uniform
ProfileN = 1.0
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProfile(t *testing.T) {
	path := writeTestCase(t, `[Grid]
Nx0 = 16
Nx1 = 16
Dx0 = 0.1
Dx1 = 0.1
Dt = 0.05

[Species "electrons"]
MQ = -1
Ppc0 = 2
Ppc1 = 2
Profile = Exotic
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNoSpecies(t *testing.T) {
	path := writeTestCase(t, `[Grid]
Nx0 = 16
Nx1 = 16
Dx0 = 0.1
Dx1 = 0.1
Dt = 0.05
`)
	_, err := Load(path)
	assert.Error(t, err)
}
