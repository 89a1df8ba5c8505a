package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sabercli/internal/analytics"
)

func sampleData() Data {
	return Data{
		RunID:           "3f2c7b1e-run",
		GeneratedAt:     time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
		TraditionalRows: 816,
		StatcastRows:    674,
		MergedRows:      674,
		DroppedRows:     142,
		RowsWithGaps:    3,
		ShortenedSeason: 2020,
		TopOPS: analytics.OPSComparisonTable{
			SeasonA: 2019,
			SeasonB: 2021,
			Rows: []analytics.OPSComparisonRow{
				{PlayerID: 545361, Player: "Mike Trout", OPSA: 1.083, OPSB: math.NaN()},
				{PlayerID: 605141, Player: "Mookie Betts", OPSA: 0.915, OPSB: 0.854},
			},
		},
		SeasonMeans: []analytics.SeasonMeans{
			{Year: 2019, MeanWhiffPct: 25.9, MeanStrikeoutPct: 22.4, Players: 135},
			{Year: 2021, MeanWhiffPct: 26.3, MeanStrikeoutPct: 23.1, Players: 132},
		},
		Surnames: []analytics.SurnameCount{
			{LastName: "Garcia", Count: 7},
			{LastName: "Trout", Count: 5},
		},
		WhiffTrend: []analytics.SeasonWhiffStat{
			{Year: 2019, Mean: 25.9, StdErr: 0.6, Count: 135},
			{Year: 2021, Mean: 26.3, StdErr: math.NaN(), Count: 1},
		},
		ScatterChart: "charts/barrels.png",
		WhiffChart:   "charts/whiff.png",
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	builder := NewBuilder(nil)

	require.NoError(t, builder.WriteHTML(path, sampleData()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "Mike Trout")
	assert.Contains(t, html, "1.083")
	assert.Contains(t, html, `src="charts/barrels.png"`)
	assert.Contains(t, html, `src="charts/whiff.png"`)
	assert.Contains(t, html, "Garcia")
	assert.Contains(t, html, "drops 142 traditional rows")
	assert.NotContains(t, html, "NaN", "missing cells must render empty")

	// One table row per query-result row.
	assert.Equal(t, 2, strings.Count(html, "<td>Mike Trout</td>")+strings.Count(html, "<td>Mookie Betts</td>"))
}

func TestWriteHTML_BadPath(t *testing.T) {
	builder := NewBuilder(nil)

	err := builder.WriteHTML(string([]byte{0}), sampleData())
	assert.Error(t, err)
}

func TestExportTables(t *testing.T) {
	dir := t.TempDir()
	builder := NewBuilder(nil)

	require.NoError(t, builder.ExportTables(dir, sampleData()))

	for _, name := range []string{"top_ops.csv", "season_means.csv", "surname_counts.csv"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(raw), "\xef\xbb\xbf"), "%s should carry a BOM", name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "top_ops.csv"))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Mike Trout,1.083,")
	assert.Contains(t, content, "OPS 2019,OPS 2021")
}

func TestWriteSummaryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	builder := NewBuilder(nil)

	require.NoError(t, builder.WriteSummaryJSON(path, sampleData()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "season_report_v1", decoded["format"])
	assert.Equal(t, float64(674), decoded["merged_rows"])
	assert.Equal(t, "3f2c7b1e-run", decoded["run_id"])

	build := decoded["build"].(map[string]interface{})
	assert.Equal(t, "0.1.0", build["version"])
	assert.Equal(t, "season_report_v1", build["data_format"])

	topOPS := decoded["top_ops"].(map[string]interface{})
	rows := topOPS["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "1.083", first["ops_season_a"])
	assert.Equal(t, "", first["ops_season_b"], "NaN must serialize as empty")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "1.083", formatCell(1.0834, 3))
	assert.Equal(t, "25.90", formatCell(25.9, 2))
	assert.Equal(t, "", formatCell(math.NaN(), 3))
}
