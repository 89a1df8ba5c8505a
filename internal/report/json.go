package report

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "sabercli/internal/errors"
	"sabercli/pkg/contracts"
)

// WriteSummaryJSON writes the full report data, including run metadata and
// every query table, as an indented JSON document. NaN cells are nulled out
// first since encoding/json rejects them.
func (b *Builder) WriteSummaryJSON(path string, data Data) error {
	b.logger.Info("writing report summary JSON",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON summary file", err).
			WithContext("path", path)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sanitize(data)); err != nil {
		return apperrors.NewStorageError("failed to encode report summary", err)
	}
	return nil
}

// sanitize rewrites the float fields encoding/json cannot represent: NaN
// cells become the same empty-string form the CSV exports use.
func sanitize(data Data) map[string]interface{} {
	type opsRow struct {
		PlayerID int    `json:"player_id"`
		Player   string `json:"player"`
		OPSA     string `json:"ops_season_a"`
		OPSB     string `json:"ops_season_b"`
	}
	type whiffRow struct {
		Year   int    `json:"year"`
		Mean   string `json:"mean"`
		StdErr string `json:"std_err"`
		Count  int    `json:"count"`
	}
	type meansRow struct {
		Year             int    `json:"year"`
		MeanWhiffPct     string `json:"mean_whiff_percent"`
		MeanStrikeoutPct string `json:"mean_strikeout_percent"`
		Players          int    `json:"players"`
	}

	opsRows := make([]opsRow, 0, len(data.TopOPS.Rows))
	for _, r := range data.TopOPS.Rows {
		opsRows = append(opsRows, opsRow{
			PlayerID: r.PlayerID,
			Player:   r.Player,
			OPSA:     formatCell(r.OPSA, 3),
			OPSB:     formatCell(r.OPSB, 3),
		})
	}

	whiffRows := make([]whiffRow, 0, len(data.WhiffTrend))
	for _, r := range data.WhiffTrend {
		whiffRows = append(whiffRows, whiffRow{
			Year:   r.Year,
			Mean:   formatCell(r.Mean, 3),
			StdErr: formatCell(r.StdErr, 4),
			Count:  r.Count,
		})
	}

	meansRows := make([]meansRow, 0, len(data.SeasonMeans))
	for _, r := range data.SeasonMeans {
		meansRows = append(meansRows, meansRow{
			Year:             r.Year,
			MeanWhiffPct:     formatCell(r.MeanWhiffPct, 3),
			MeanStrikeoutPct: formatCell(r.MeanStrikeoutPct, 3),
			Players:          r.Players,
		})
	}

	return map[string]interface{}{
		"run_id":           data.RunID,
		"generated_at":     data.GeneratedAt,
		"format":           contracts.DataFormatVersion,
		"generator":        contracts.GetVersionString(),
		"build":            contracts.GetVersionInfo(),
		"traditional_rows": data.TraditionalRows,
		"statcast_rows":    data.StatcastRows,
		"merged_rows":      data.MergedRows,
		"dropped_rows":     data.DroppedRows,
		"rows_with_gaps":   data.RowsWithGaps,
		"shortened_season": data.ShortenedSeason,
		"top_ops": map[string]interface{}{
			"season_a": data.TopOPS.SeasonA,
			"season_b": data.TopOPS.SeasonB,
			"rows":     opsRows,
		},
		"season_means":   meansRows,
		"surname_counts": data.Surnames,
		"whiff_by_year":  whiffRows,
	}
}
