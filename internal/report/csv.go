package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	apperrors "sabercli/internal/errors"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (b *Builder) WriteCSV(path string, options WriteOptions) error {
	b.logger.Info("writing CSV table",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV file", err).
			WithContext("path", path)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write CSV header row", err)
		}
	}
	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}

	return nil
}

// ExportTables writes the three query tables as CSV files under dir.
func (b *Builder) ExportTables(dir string, data Data) error {
	opsRecords := make([][]string, 0, len(data.TopOPS.Rows))
	for _, row := range data.TopOPS.Rows {
		opsRecords = append(opsRecords, []string{
			row.Player,
			formatCell(row.OPSA, 3),
			formatCell(row.OPSB, 3),
		})
	}
	if err := b.WriteCSV(filepath.Join(dir, "top_ops.csv"), WriteOptions{
		Headers: []string{
			"Player",
			fmt.Sprintf("OPS %d", data.TopOPS.SeasonA),
			fmt.Sprintf("OPS %d", data.TopOPS.SeasonB),
		},
		Records:   opsRecords,
		BOMPrefix: true,
	}); err != nil {
		return err
	}

	meanRecords := make([][]string, 0, len(data.SeasonMeans))
	for _, row := range data.SeasonMeans {
		meanRecords = append(meanRecords, []string{
			fmt.Sprintf("%d", row.Year),
			formatCell(row.MeanWhiffPct, 2),
			formatCell(row.MeanStrikeoutPct, 2),
			fmt.Sprintf("%d", row.Players),
		})
	}
	if err := b.WriteCSV(filepath.Join(dir, "season_means.csv"), WriteOptions{
		Headers:   []string{"Year", "MeanWhiffPct", "MeanStrikeoutPct", "Players"},
		Records:   meanRecords,
		BOMPrefix: true,
	}); err != nil {
		return err
	}

	surnameRecords := make([][]string, 0, len(data.Surnames))
	for _, row := range data.Surnames {
		surnameRecords = append(surnameRecords, []string{
			row.LastName,
			fmt.Sprintf("%d", row.Count),
		})
	}
	return b.WriteCSV(filepath.Join(dir, "surname_counts.csv"), WriteOptions{
		Headers:   []string{"LastName", "Seasons"},
		Records:   surnameRecords,
		BOMPrefix: true,
	})
}

// formatCell renders a float for a table cell; missing values become empty
// cells rather than "NaN".
func formatCell(v float64, precision int) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.*f", precision, v)
}
