// Package report assembles the final analysis document: one self-contained
// HTML page embedding the two chart images, the three query tables, and the
// narrative commentary, plus CSV copies of each table and a JSON summary
// with run metadata.
package report

import (
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sabercli/internal/analytics"
	apperrors "sabercli/internal/errors"
)

// Data carries everything the report document needs.
type Data struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	TraditionalRows int `json:"traditional_rows"`
	StatcastRows    int `json:"statcast_rows"`
	MergedRows      int `json:"merged_rows"`
	DroppedRows     int `json:"dropped_rows"`
	RowsWithGaps    int `json:"rows_with_gaps"`
	ShortenedSeason int `json:"shortened_season"`

	TopOPS      analytics.OPSComparisonTable `json:"top_ops"`
	SeasonMeans []analytics.SeasonMeans      `json:"season_means"`
	Surnames    []analytics.SurnameCount     `json:"surname_counts"`
	WhiffTrend  []analytics.SeasonWhiffStat  `json:"whiff_by_year"`

	// Chart paths relative to the HTML document.
	ScatterChart string `json:"scatter_chart"`
	WhiffChart   string `json:"whiff_chart"`
}

// Builder renders and writes the report artifacts.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a report builder. A nil logger falls back to
// slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// WriteHTML renders the report document to path.
func (b *Builder) WriteHTML(path string, data Data) error {
	b.logger.Info("writing report document",
		slog.String("path", path),
		slog.Int("merged_rows", data.MergedRows))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create report file", err).
			WithContext("path", path)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, data); err != nil {
		return apperrors.NewRenderError("failed to render report template", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"rate": func(v float64) string { return formatCell(v, 2) },
	"ops":  func(v float64) string { return formatCell(v, 3) },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Batted-Ball &amp; Plate-Discipline Season Report</title>
<style>
body { font-family: Georgia, serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
h1, h2 { font-family: Helvetica, Arial, sans-serif; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d1d5db; padding: 0.3rem 0.8rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
figure { margin: 1.5rem 0; }
img { max-width: 100%; }
footer { margin-top: 2rem; font-size: 0.8rem; color: #6b7280; }
</style>
</head>
<body>
<h1>Batted-Ball &amp; Plate-Discipline Season Report</h1>

<p>This report joins {{.TraditionalRows}} traditional player-seasons with
{{.StatcastRows}} Statcast player-seasons on (player, year). The merge keeps
all {{.MergedRows}} Statcast rows and drops {{.DroppedRows}} traditional rows,
all of them from the shortened {{.ShortenedSeason}} season, which has no
Statcast coverage in this export.</p>

<h2>Barrels and home runs</h2>
<p>Barrel rate tracks home-run output closely: hitters who barrel more balls
hit more home runs, and the smoothed trend below is close to monotone across
the observed range.</p>
<figure>
<img src="{{.ScatterChart}}" alt="Scatter of barrel rate vs home runs with trend curve">
</figure>

<h2>Whiff rates keep climbing</h2>
<p>League-mean whiff rate rises season over season. The error bars show one
standard error around each season mean; the shortened season is absent
because it never enters the merged table.</p>
<figure>
<img src="{{.WhiffChart}}" alt="Mean whiff rate by season with standard error bars">
</figure>

<table>
<tr><th>Year</th><th>Mean whiff %</th><th>Mean strikeout %</th><th>Players</th></tr>
{{range .SeasonMeans}}
<tr><td>{{.Year}}</td><td>{{rate .MeanWhiffPct}}</td><td>{{rate .MeanStrikeoutPct}}</td><td>{{.Players}}</td></tr>
{{end}}
</table>

<h2>Top OPS, {{.TopOPS.SeasonA}} vs {{.TopOPS.SeasonB}}</h2>
<p>The best offensive seasons by OPS in the two compared years. An empty cell
means that player's other season did not make the cut.</p>
<table>
<tr><th>Player</th><th>OPS {{.TopOPS.SeasonA}}</th><th>OPS {{.TopOPS.SeasonB}}</th></tr>
{{range .TopOPS.Rows}}
<tr><td>{{.Player}}</td><td>{{ops .OPSA}}</td><td>{{ops .OPSB}}</td></tr>
{{end}}
</table>

<h2>Most common surnames</h2>
<p>A single player contributes at most one row per season, so any surname
count above the number of seasons is shared by multiple players.</p>
<table>
<tr><th>Last name</th><th>Player-seasons</th></tr>
{{range .Surnames}}
<tr><td>{{.LastName}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>

<footer>Run {{.RunID}} · generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} ·
{{.RowsWithGaps}} merged rows carry at least one missing metric (excluded from means).</footer>
</body>
</html>
`
