package transform_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wptable/rankmatrix/internal/domain/history"
	"github.com/wptable/rankmatrix/internal/domain/teams"
	"github.com/wptable/rankmatrix/internal/transform"
)

const mappingsCSV = "\ufeffteam_name,team_id\n" +
	"University of California-Los Angeles,1\n" +
	"UCLA,1\n" +
	"USC,2\n" +
	"Stanford University,3\n"

const rankingsJSON = `{
  "12/01/2023-final": [
    {"team_name": "UCLA", "ranking": 1},
    {"team_name": "University of California, Los Angeles", "ranking": 1},
    {"team_name": "Harvard", "ranking": "19"},
    {"team_name": "", "ranking": 20}
  ],
  "09/05/2023": [
    {"team_name": "Stanford Cardinal", "ranking": 2},
    {"team_name": "Harvard", "ranking": 18}
  ]
}`

func resolver(t *testing.T) *teams.Resolver {
	t.Helper()
	table, err := teams.ReadCSV(strings.NewReader(mappingsCSV))
	require.NoError(t, err)
	return teams.NewResolver(table)
}

func TestReadKeepsPeriodOrder(t *testing.T) {
	periods, err := transform.Read(strings.NewReader(rankingsJSON))
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "12/01/2023-final", periods[0].Key)
	assert.Equal(t, "09/05/2023", periods[1].Key)
	assert.Len(t, periods[0].Entries, 4)
}

func TestReadRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "[]", `{"a": 1}`, `{"a": [`} {
		_, err := transform.Read(strings.NewReader(in))
		assert.ErrorIs(t, err, transform.ErrMalformedInput, "input %q", in)
	}
}

func TestApply(t *testing.T) {
	periods, err := transform.Read(strings.NewReader(rankingsJSON))
	require.NoError(t, err)

	out, stats := transform.Apply(periods, resolver(t))

	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 3, stats.Mapped)
	assert.Equal(t, []string{"Harvard"}, stats.Unmapped)
	assert.Equal(t, 1, stats.ByTier[teams.TierExact])
	assert.Equal(t, 1, stats.ByTier[teams.TierAlias])
	assert.Equal(t, 1, stats.ByTier[teams.TierToken])
	assert.Equal(t, 2, stats.ByTier[teams.TierUnmapped])

	require.Len(t, out[0].Entries, 3)
	assert.Equal(t, 1, out[0].Entries[0].TeamID)
	assert.Empty(t, out[0].Entries[0].TeamName)
	assert.Equal(t, "Harvard", out[0].Entries[2].TeamName)
	assert.JSONEq(t, `"19"`, string(out[0].Entries[2].Ranking))
	assert.Equal(t, 3, out[1].Entries[0].TeamID)
}

func TestWriteProducesLoadableHistory(t *testing.T) {
	periods, err := transform.Read(strings.NewReader(rankingsJSON))
	require.NoError(t, err)
	out, _ := transform.Apply(periods, resolver(t))

	var buf bytes.Buffer
	require.NoError(t, transform.Write(&buf, out))
	assert.True(t, json.Valid(buf.Bytes()))
	assert.Less(t, strings.Index(buf.String(), "12/01/2023-final"), strings.Index(buf.String(), "09/05/2023"))

	h, rep, err := history.Load(&buf, resolver(t))
	require.NoError(t, err)
	assert.Equal(t, 5, h.Len())
	assert.Equal(t, []int{1, 3}, h.TeamIDs())
	assert.Equal(t, []string{"Harvard"}, rep.UnresolvedNames)
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transform.Write(&buf, nil))
	assert.Equal(t, "{}\n", buf.String())
}

func TestFilesAndReport(t *testing.T) {
	dir := t.TempDir()
	mappings := filepath.Join(dir, "teams.csv")
	input := filepath.Join(dir, "rankings.json")
	output := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(mappings, []byte(mappingsCSV), 0o600))
	require.NoError(t, os.WriteFile(input, []byte(rankingsJSON), 0o600))

	stats, err := transform.Files(mappings, input, output)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Mapped)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"team_id": 3`)

	var report bytes.Buffer
	transform.Report(&report, stats)
	assert.Contains(t, report.String(), "Total teams processed: 5")
	assert.Contains(t, report.String(), "Teams not mapped: 1")
	assert.Contains(t, report.String(), "  - Harvard")

	_, err = transform.Files(mappings, filepath.Join(dir, "missing.json"), output)
	assert.Error(t, err)
}
