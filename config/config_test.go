package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/config"
	"github.com/rdmnet/rdmsim/strategy"
	"github.com/rdmnet/rdmsim/topology"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rdmsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	path := writeTemp(t, `
numMirrors: 6
simTime: 50
strategy:
  kind: RING
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 6, cfg.NumMirrors)
	require.Equal(t, 50, cfg.SimTime)
	require.Equal(t, 1, cfg.StartupTimeMax)

	s, err := cfg.Strategy.Resolve()
	require.NoError(t, err)
	require.Equal(t, topology.TypeRing, s.Kind())
}

func TestLoadRejectsInvertedBounds(t *testing.T) {
	path := writeTemp(t, `
numMirrors: 3
simTime: 10
startupTimeMin: 5
startupTimeMax: 1
`)
	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidBounds)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	path := writeTemp(t, `
numMirrors: 3
simTime: 10
strategy:
  kind: HYPERCUBE
`)
	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrUnknownStrategy)
}

func TestStrategyConfigResolvesSnowflakeWithSubstructures(t *testing.T) {
	sc := config.StrategyConfig{
		Kind:           "SNOWFLAKE",
		Rotation:       []string{"STAR", "LINE"},
		Density:        0.5,
		BridgeDistance: 1,
	}
	s, err := sc.Resolve()
	require.NoError(t, err)

	snow, ok := s.(strategy.SnowflakeStrategy)
	require.True(t, ok)
	require.Len(t, snow.Rotation, 2)
	require.Contains(t, snow.Factory, topology.TypeStar)
	require.Contains(t, snow.Factory, topology.TypeLine)
}
