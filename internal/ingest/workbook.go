package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	apperrors "sabercli/internal/errors"
)

// readWorkbook reads an .xlsx leaderboard export into a dataframe. Leaderboard
// workbooks downloaded from stat sites vary in sheet naming, so the sheet and
// header row are located by content rather than by position.
func (l *Loader) readWorkbook(path string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return dataframe.DataFrame{}, apperrors.NewNotFoundError(fmt.Sprintf("source file %s", path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, sheetName, err := findLeaderboardSheet(f)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	headerRow := findHeaderRow(rows)
	if headerRow < 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError("no header row with player_id found in workbook", nil).
			WithContext("path", path).
			WithContext("sheet", sheetName)
	}

	l.logger.Debug("found leaderboard sheet",
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	records := normalizeRecords(rows[headerRow:])
	if len(records) < 2 {
		return dataframe.DataFrame{}, apperrors.NewParsingError("workbook contains no data rows", nil).
			WithContext("path", path)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to load workbook records", df.Err).
			WithContext("path", path)
	}
	return df, nil
}

// findLeaderboardSheet returns the rows of the first sheet that looks like a
// leaderboard, identified by a row mentioning both player_id and year.
func findLeaderboardSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if findHeaderRow(rows) >= 0 {
			return rows, name, nil
		}
	}
	return nil, "", apperrors.NewParsingError("no leaderboard sheet found in workbook", nil)
}

// findHeaderRow locates the header row by its column names. Only the first
// few rows are scanned; exports sometimes carry a title row above the header.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(rowText, ColPlayerID) && strings.Contains(rowText, ColYear) {
			return i
		}
	}
	return -1
}

// normalizeRecords pads ragged workbook rows to the header width. excelize
// truncates trailing empty cells, which gota rejects as malformed records.
func normalizeRecords(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalized := make([]string, width)
		copy(normalized, row)
		records = append(records, normalized)
	}
	return records
}
