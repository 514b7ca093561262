package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestRunSimulationEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rdmsim.yaml")
	body := `
numMirrors: 5
simTime: 10
strategy:
  kind: TREE
actions:
  - kind: setMirrors
    atTick: 3
    count: 8
  - kind: setMirrors
    atTick: 6
    count: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, runSimulation(path, hclog.NewNullLogger()))
}

func TestDescribeStrategyPrintsResolvedParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rdmsim.yaml")
	body := `
numMirrors: 4
simTime: 1
strategy:
  kind: RING
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, describeStrategy(path))
}
