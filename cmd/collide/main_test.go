package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/geom"
)

const testSceneYAML = `name: demo
arena: {min: [0, 0], max: [40, 20]}
bodies:
  - id: floor
    box: {position: [0, 0], size: [40, 2]}
    static: true
  - id: ball
    circle: {center: [10, 2.5], radius: 1}
  - id: wedge
    polygon: {points: [[0, 0], [4, 0], [2, 3]], position: [30, 10]}
`

// execute runs the root command with fresh flag values and returns its
// output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	flagConfig, flagLogLevel, flagDensity, flagSeed = "", "warn", "", 0
	flagDBPath = filepath.Join(t.TempDir(), "collide.db")
	flagValidate = false
	flagFrom, flagDir, flagDist, flagAll = "0,0", "1,0", 0, false
	flagRuns, flagSteps, flagBodies, flagParallel, flagNoSave = 0, 0, 0, -1, false
	flagRunsTUI, flagRunsLimit, flagRunsClear = false, 20, false
	flagScenesLimit = 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSceneYAML), 0o644))
	return path
}

func TestParseVec(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Vec
		wantErr bool
	}{
		{"1,2", geom.V(1, 2), false},
		{" -0.5 , 3e2 ", geom.V(-0.5, 300), false},
		{"1", geom.Vec{}, true},
		{"a,2", geom.Vec{}, true},
		{"1,NaN", geom.Vec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseVec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	for _, id := range []string{"grid", "mixed", "rain"} {
		assert.Contains(t, out, id)
	}
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", writeScene(t), "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "scene demo: 3 bodies, 1 overlapping pairs")
	assert.Contains(t, out, "floor")
	assert.Contains(t, out, "depth 0.500")
	assert.Contains(t, out, "tree ok")
	assert.NotContains(t, out, "wedge ")
}

func TestCheckMissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCastClosest(t *testing.T) {
	out, err := execute(t, "cast", writeScene(t), "--from", "10,10", "--dir", "0,-1")
	require.NoError(t, err)
	assert.Contains(t, out, "ball")
	assert.Contains(t, out, "distance 6.500")
	assert.NotContains(t, out, "floor")
}

func TestCastAll(t *testing.T) {
	out, err := execute(t, "cast", writeScene(t), "--from", "10,10", "--dir", "0,-1", "--all")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ball"))
	assert.True(t, strings.HasPrefix(lines[1], "floor"))
	assert.Contains(t, lines[1], "distance 8.000")
}

func TestCastMiss(t *testing.T) {
	out, err := execute(t, "cast", writeScene(t), "--from", "10,10", "--dir", "0,1")
	require.NoError(t, err)
	assert.Equal(t, "no hit\n", out)
}

func TestCastRejectsBadFlags(t *testing.T) {
	path := writeScene(t)
	_, err := execute(t, "cast", path, "--dir", "0,0")
	assert.Error(t, err)
	_, err = execute(t, "cast", path, "--from", "x")
	assert.Error(t, err)
	_, err = execute(t, "cast", path, "--dist", "-1")
	assert.Error(t, err)
}

func TestScenes(t *testing.T) {
	path := writeScene(t)
	t.Setenv("HOME", t.TempDir())

	db := filepath.Join(t.TempDir(), "scenes.db")
	out, err := execute(t, "scenes", "save", path, "--db", db)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.Len(t, id, 36)

	out, err = execute(t, "scenes", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "demo")

	out, err = execute(t, "scenes", "show", id[:8], "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "name: demo")
	assert.Contains(t, out, "id: wedge")

	out, err = execute(t, "scenes", "delete", id[:8], "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = execute(t, "scenes", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenes stored yet.")
}

func TestBenchAndRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bench.db")
	out, err := execute(t, "bench", "grid", "--runs", "2", "--steps", "5", "--bodies", "12", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "2 runs in")

	out, err = execute(t, "runs", "grid", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "grid")
	assert.Contains(t, out, "2 runs")

	_, err = execute(t, "runs", "nope", "--db", db)
	assert.Error(t, err)

	out, err = execute(t, "runs", "--clear", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "runs cleared")

	out, err = execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")
}

func TestBenchUnknownScenario(t *testing.T) {
	_, err := execute(t, "bench", "nope", "--no-save")
	assert.Error(t, err)
}
