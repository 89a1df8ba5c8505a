// Package ingest reads the two seasonal leaderboard exports into dataframes.
// It handles the quirks of the raw exports: a BOM-mangled first header cell,
// a stray unnamed index column, and occasional missing metric values. Every
// loaded table is schema-checked and its (player_id, year) key verified
// unique before it reaches the join stage.
package ingest

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-playground/validator/v10"

	apperrors "sabercli/internal/errors"
	"sabercli/pkg/contracts/domain"
)

// missingMarkers are the cell tokens loaded as absent values.
var missingMarkers = []string{"", "NA", "NaN", "null"}

// Column names shared by both source tables after cleaning.
const (
	ColPlayerID  = "player_id"
	ColYear      = "year"
	ColFirstName = "first_name"
	ColLastName  = "last_name"
)

// Columns specific to each source table.
const (
	ColHomeRuns     = "home_run"
	ColStrikeoutPct = "strikeout_percent"
	ColBattingAvg   = "batting_average"
	ColSluggingPct  = "slugging_percent"
	ColOnBasePct    = "on_base_percent"
	ColBarrelRate   = "barrel_rate"
	ColWhiffPct     = "whiff_percent"
)

// Source identifies which leaderboard export a file holds.
type Source string

const (
	SourceTraditional Source = "traditional"
	SourceStatcast    Source = "statcast"
)

// requiredColumns returns the post-clean schema for a source.
func (s Source) requiredColumns() []string {
	shared := []string{ColLastName, ColFirstName, ColPlayerID, ColYear}
	switch s {
	case SourceTraditional:
		return append(shared, ColHomeRuns, ColStrikeoutPct, ColBattingAvg, ColSluggingPct, ColOnBasePct)
	case SourceStatcast:
		return append(shared, ColBarrelRate, ColWhiffPct)
	default:
		return shared
	}
}

// numericColumns returns every column expected to hold numbers. A cell in
// one of these that is neither a missing marker nor parseable is a schema
// error, not a gap.
func (s Source) numericColumns() []string {
	cols := []string{ColPlayerID, ColYear}
	switch s {
	case SourceTraditional:
		return append(cols, ColHomeRuns, ColStrikeoutPct, ColBattingAvg, ColSluggingPct, ColOnBasePct)
	case SourceStatcast:
		return append(cols, ColBarrelRate, ColWhiffPct)
	default:
		return cols
	}
}

// metricColumns returns the rate/percentage columns whose values are checked
// against [0, max] when present. Missing values (NaN) pass unchecked.
func (s Source) metricColumns() map[string]float64 {
	switch s {
	case SourceTraditional:
		return map[string]float64{
			ColStrikeoutPct: 100,
			ColBattingAvg:   1.5,
			ColSluggingPct:  5,
			ColOnBasePct:    1.5,
		}
	case SourceStatcast:
		return map[string]float64{
			ColBarrelRate: 100,
			ColWhiffPct:   100,
		}
	default:
		return nil
	}
}

// Loader reads leaderboard exports into cleaned, validated dataframes.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// Load reads one leaderboard export from path, dispatching on the file
// extension (.csv or .xlsx), and returns the cleaned dataframe. Any I/O,
// schema, or key-uniqueness problem aborts with an error; there is no
// partial-result mode.
func (l *Loader) Load(path string, source Source) (dataframe.DataFrame, error) {
	l.logger.Info("loading leaderboard export",
		slog.String("path", path),
		slog.String("source", string(source)))

	var df dataframe.DataFrame
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		df, err = l.readWorkbook(path)
	default:
		df, err = l.readCSV(path)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err = cleanColumns(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if err := checkSchema(df, source); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := VerifyUniqueKeys(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := l.validateRecords(df, source); err != nil {
		return dataframe.DataFrame{}, err
	}

	l.logger.Info("loaded leaderboard export",
		slog.String("source", string(source)),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	return df, nil
}

// readCSV reads a delimited export into a dataframe.
func (l *Loader) readCSV(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataframe.DataFrame{}, apperrors.NewNotFoundError(fmt.Sprintf("source file %s", path))
		}
		return dataframe.DataFrame{}, apperrors.NewStorageError("failed to open source file", err).
			WithContext("path", path)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to parse CSV", df.Err).
			WithContext("path", path)
	}
	return df, nil
}

// cleanColumns normalizes the raw export headers: strips the UTF-8 BOM that
// mangles the first header cell, drops the unnamed index column the export
// carries, and as a last resort renames the leading column to last_name when
// the mangled header survived in some other form.
func cleanColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		trimmed := strings.TrimPrefix(name, "\ufeff")
		if trimmed != name {
			df = df.Rename(trimmed, name)
			if df.Err != nil {
				return dataframe.DataFrame{}, apperrors.NewParsingError("failed to rename column", df.Err)
			}
		}
	}

	for _, name := range df.Names() {
		if isIndexColumn(name) {
			df = df.Drop(name)
			if df.Err != nil {
				return dataframe.DataFrame{}, apperrors.NewParsingError("failed to drop index column", df.Err)
			}
		}
	}

	names := df.Names()
	if len(names) > 0 && !contains(names, ColLastName) {
		df = df.Rename(ColLastName, names[0])
		if df.Err != nil {
			return dataframe.DataFrame{}, apperrors.NewParsingError("failed to rename leading column", df.Err)
		}
	}

	return df, nil
}

// isIndexColumn reports whether a column name looks like a serialized row
// index rather than data. gota names blank header cells X0, X1, ... and
// pandas-style exports use "Unnamed: 0".
func isIndexColumn(name string) bool {
	if name == "" || name == "index" {
		return true
	}
	if strings.HasPrefix(name, "Unnamed:") {
		return true
	}
	if len(name) >= 2 && name[0] == 'X' {
		rest := name[1:]
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// checkSchema verifies that every required column is present.
func checkSchema(df dataframe.DataFrame, source Source) error {
	names := df.Names()
	for _, col := range source.requiredColumns() {
		if !contains(names, col) {
			return apperrors.NewValidationError(fmt.Sprintf("missing required column %q", col)).
				WithContext("source", string(source)).
				WithContext("columns", names)
		}
	}
	return nil
}

// VerifyUniqueKeys checks that (player_id, year) is unique within a source
// table. The join relies on this; a duplicate would silently corrupt the
// merged output, so it is enforced rather than assumed.
func VerifyUniqueKeys(df dataframe.DataFrame) error {
	ids := df.Col(ColPlayerID).Float()
	years := df.Col(ColYear).Float()

	type key struct {
		id   int
		year int
	}
	seen := make(map[key]bool, len(ids))
	for i := range ids {
		k := key{id: int(ids[i]), year: int(years[i])}
		if seen[k] {
			return apperrors.NewValidationError("duplicate (player_id, year) key in source table").
				WithContext("player_id", k.id).
				WithContext("year", k.year)
		}
		seen[k] = true
	}
	return nil
}

// validateRecords checks raw numeric cells for parseability, validates each
// typed record's identity fields, and range-checks the metric columns.
// Metric values that are missing (NaN) are tolerated; non-numeric tokens and
// out-of-range values are not.
func (l *Loader) validateRecords(df dataframe.DataFrame, source Source) error {
	if err := checkNumericCells(df, source); err != nil {
		return err
	}

	switch source {
	case SourceTraditional:
		for i, rec := range TraditionalRecords(df) {
			if err := l.validate.Struct(rec); err != nil {
				return apperrors.NewValidationError("invalid traditional record").
					WithContext("row", i).
					WithContext("cause", err.Error())
			}
		}
	case SourceStatcast:
		for i, rec := range StatcastRecords(df) {
			if err := l.validate.Struct(rec); err != nil {
				return apperrors.NewValidationError("invalid statcast record").
					WithContext("row", i).
					WithContext("cause", err.Error())
			}
		}
	}

	for col, max := range source.metricColumns() {
		values := df.Col(col).Float()
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v < 0 || v > max {
				return apperrors.NewValidationError(fmt.Sprintf("value out of range for %s", col)).
					WithContext("row", i).
					WithContext("value", v).
					WithContext("max", max)
			}
		}
	}

	return nil
}

// checkNumericCells verifies that every cell of a numeric column is either a
// declared missing marker or parses as a number. Without this, gota coerces
// any stray token to NaN on Float() and a type mismatch would masquerade as
// a tolerated gap.
func checkNumericCells(df dataframe.DataFrame, source Source) error {
	for _, col := range source.numericColumns() {
		for i, cell := range df.Col(col).Records() {
			if isMissingMarker(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				return apperrors.NewValidationError(fmt.Sprintf("non-numeric value in column %s", col)).
					WithContext("row", i).
					WithContext("value", cell)
			}
		}
	}
	return nil
}

func isMissingMarker(cell string) bool {
	for _, marker := range missingMarkers {
		if cell == marker {
			return true
		}
	}
	return false
}

// TraditionalRecords converts a cleaned traditional dataframe into typed
// records. Missing name cells come back from gota as the string "NaN" and
// are normalized to empty.
func TraditionalRecords(df dataframe.DataFrame) []domain.TraditionalStat {
	ids := df.Col(ColPlayerID).Float()
	years := df.Col(ColYear).Float()
	firstNames := df.Col(ColFirstName).Records()
	lastNames := df.Col(ColLastName).Records()
	homeRuns := df.Col(ColHomeRuns).Float()
	strikeouts := df.Col(ColStrikeoutPct).Float()
	avgs := df.Col(ColBattingAvg).Float()
	slgs := df.Col(ColSluggingPct).Float()
	obps := df.Col(ColOnBasePct).Float()

	records := make([]domain.TraditionalStat, df.Nrow())
	for i := range records {
		records[i] = domain.TraditionalStat{
			PlayerID:     int(ids[i]),
			Year:         int(years[i]),
			FirstName:    cleanCell(firstNames[i]),
			LastName:     cleanCell(lastNames[i]),
			HomeRuns:     homeRuns[i],
			StrikeoutPct: strikeouts[i],
			BattingAvg:   avgs[i],
			SluggingPct:  slgs[i],
			OnBasePct:    obps[i],
		}
	}
	return records
}

// StatcastRecords converts a cleaned Statcast dataframe into typed records.
func StatcastRecords(df dataframe.DataFrame) []domain.StatcastStat {
	ids := df.Col(ColPlayerID).Float()
	years := df.Col(ColYear).Float()
	firstNames := df.Col(ColFirstName).Records()
	lastNames := df.Col(ColLastName).Records()
	barrels := df.Col(ColBarrelRate).Float()
	whiffs := df.Col(ColWhiffPct).Float()

	records := make([]domain.StatcastStat, df.Nrow())
	for i := range records {
		records[i] = domain.StatcastStat{
			PlayerID:   int(ids[i]),
			Year:       int(years[i]),
			FirstName:  cleanCell(firstNames[i]),
			LastName:   cleanCell(lastNames[i]),
			BarrelRate: barrels[i],
			WhiffPct:   whiffs[i],
		}
	}
	return records
}

func cleanCell(s string) string {
	if s == "NaN" {
		return ""
	}
	return s
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}
