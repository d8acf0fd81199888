package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	coastalAnalysis = filepath.Join("..", "..", "internal", "analysis", "testdata", "coastal.yaml")
	tableAnalysis   = filepath.Join("..", "..", "internal", "analysis", "testdata", "table_ref.yaml")
	hazusTable      = filepath.Join("..", "..", "internal", "hazus", "testdata", "flood_depth_damage.csv")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluate_Table(t *testing.T) {
	out, err := execute(t, "evaluate", "--analysis", coastalAnalysis, "--grid-points", "200")
	require.NoError(t, err)

	assert.Contains(t, out, "Evaluation coastal-cottage")
	assert.Contains(t, out, "By height:")
	assert.Equal(t, 10, strings.Count(out, "low")+strings.Count(out, "high"))
}

func TestEvaluate_JSON(t *testing.T) {
	out, err := execute(t, "evaluate", "--analysis", coastalAnalysis, "--grid-points", "200", "--json", "--annual", "--workers", "2")
	require.NoError(t, err)

	var result domain.EvaluationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "coastal-cottage", result.RequestID)
	require.Len(t, result.Outcomes, 10)
	require.Len(t, result.Summaries, 5)
	for _, o := range result.Outcomes {
		assert.Len(t, o.Annual, 3)
		assert.InDelta(t, o.Investment+o.ExpectedDamage, o.TotalCost, 1e-6)
	}
}

func TestEvaluate_WithDamageTable(t *testing.T) {
	out, err := execute(t, "evaluate", "--analysis", tableAnalysis, "--table", hazusTable, "--grid-points", "200", "--json")
	require.NoError(t, err)

	var result domain.EvaluationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "scenario-0", result.Outcomes[0].ScenarioID)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing analysis flag", []string{"evaluate"}},
		{"table reference without table", []string{"evaluate", "--analysis", tableAnalysis}},
		{"bad grid", []string{"evaluate", "--analysis", coastalAnalysis, "--grid-points", "1"}},
		{"missing file", []string{"evaluate", "--analysis", "nope.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCurve(t *testing.T) {
	out, err := execute(t, "curve", "--table", hazusTable, "--id", "105", "--from", "0", "--to", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "one floor, no basement")
	assert.Contains(t, out, "Source: FIA")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, "13.40")
}

func TestCurve_UnknownID(t *testing.T) {
	_, err := execute(t, "curve", "--table", hazusTable, "--id", "999")
	require.ErrorIs(t, err, domain.ErrCurveNotFound)
}

func TestCost(t *testing.T) {
	out, err := execute(t, "cost", "--area", "1000", "--height", "0", "--height", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "0.00")
	// 5 ft is a knot of the rate curve: baseline fee plus 82.50/sq ft.
	assert.Contains(t, lines[2], "82.50")
	assert.Contains(t, lines[2], "103245")
}

func TestCost_OutOfRange(t *testing.T) {
	_, err := execute(t, "cost", "--area", "1000", "--height", "15")
	assert.Error(t, err)
}
