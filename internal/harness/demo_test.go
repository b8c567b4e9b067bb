package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDemoScenarios runs the scenarios under testdata/scenarios at the
// project root and compares their traces with golden files.
//
// To regenerate golden files:
//
//	go test ./internal/harness -run TestDemoScenarios -update
func TestDemoScenarios(t *testing.T) {
	tests := []string{
		"staged_commit",
		"synchronize_reload",
		"reload_shrink",
		"parameter_persist",
		"filters_disabled",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("..", "..", "testdata", "scenarios", name+".yaml")
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load scenario from %s", path)

			assert.Equal(t, name, scenario.Name, "scenario name mismatch")
			assert.NotEmpty(t, scenario.Description)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err, "scenario execution failed")
			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

// TestDemoScenariosReplay runs each demo scenario twice; traces must match.
func TestDemoScenariosReplay(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("..", "..", "testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		scenario, err := LoadScenario(path)
		require.NoError(t, err)

		first, err := Run(scenario)
		require.NoError(t, err)
		second, err := Run(scenario)
		require.NoError(t, err)

		firstJSON, err := MarshalTrace(scenario.Name, first.Trace)
		require.NoError(t, err)
		secondJSON, err := MarshalTrace(scenario.Name, second.Trace)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(secondJSON), "replay of %s diverged", scenario.Name)
	}
}
