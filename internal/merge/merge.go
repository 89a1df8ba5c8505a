// Package merge joins the traditional and Statcast leaderboard tables on
// their composite (player_id, year) key and derives OPS. The join is plain
// relational inner join, but the drop set is checked: the only traditional
// rows allowed to fall out are the shortened-season rows, which have no
// Statcast counterpart by construction. Anything else falling out means a
// data-quality gap and aborts the run instead of silently shrinking the
// output.
package merge

import (
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "sabercli/internal/errors"
	"sabercli/internal/ingest"
	"sabercli/pkg/contracts/domain"
)

// ColOPS is the derived column added to the merged table.
const ColOPS = "ops"

// Merger performs the checked inner join of the two source tables.
type Merger struct {
	logger          *slog.Logger
	shortenedSeason int
}

// NewMerger creates a merger. shortenedSeason is the year whose traditional
// rows are expected to drop out of the join.
func NewMerger(logger *slog.Logger, shortenedSeason int) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		logger:          logger,
		shortenedSeason: shortenedSeason,
	}
}

// Merge inner-joins the two tables on (player_id, year), drops the duplicate
// name columns from the Statcast side, derives ops, and returns the merged
// rows as typed records. Both tables must already be cleaned and key-unique.
func (m *Merger) Merge(traditional, statcast dataframe.DataFrame) ([]domain.PlayerSeason, error) {
	if err := m.checkDropSet(traditional, statcast); err != nil {
		return nil, err
	}

	// The Statcast name columns duplicate the traditional ones; drop them
	// before joining so the join output carries a single name pair.
	trimmed := statcast.Drop([]string{ingest.ColFirstName, ingest.ColLastName})
	if trimmed.Err != nil {
		return nil, apperrors.NewParsingError("failed to drop duplicate name columns", trimmed.Err)
	}

	joined := traditional.InnerJoin(trimmed, ingest.ColPlayerID, ingest.ColYear)
	if joined.Err != nil {
		return nil, apperrors.NewParsingError("inner join failed", joined.Err)
	}

	obp := joined.Col(ingest.ColOnBasePct).Float()
	slg := joined.Col(ingest.ColSluggingPct).Float()
	ops := make([]float64, len(obp))
	for i := range ops {
		ops[i] = obp[i] + slg[i]
	}
	joined = joined.Mutate(series.New(ops, series.Float, ColOPS))
	if joined.Err != nil {
		return nil, apperrors.NewParsingError("failed to derive ops column", joined.Err)
	}

	if joined.Nrow() != statcast.Nrow() {
		// checkDropSet should make this unreachable; guard the invariant anyway.
		return nil, apperrors.NewValidationError("merged row count does not match statcast table").
			WithContext("merged", joined.Nrow()).
			WithContext("statcast", statcast.Nrow())
	}

	m.logger.Info("merged leaderboard tables",
		slog.Int("traditional_rows", traditional.Nrow()),
		slog.Int("statcast_rows", statcast.Nrow()),
		slog.Int("merged_rows", joined.Nrow()),
		slog.Int("dropped_rows", traditional.Nrow()-joined.Nrow()))

	return toRecords(joined), nil
}

// checkDropSet enforces the join preconditions: every Statcast key must have
// a traditional counterpart, and every traditional key without a Statcast
// counterpart must belong to the shortened season.
func (m *Merger) checkDropSet(traditional, statcast dataframe.DataFrame) error {
	tradKeys := keySet(traditional)
	statKeys := keySet(statcast)

	for k := range statKeys {
		if !tradKeys[k] {
			return apperrors.NewValidationError("statcast row has no traditional counterpart").
				WithContext("player_id", k.PlayerID).
				WithContext("year", k.Year)
		}
	}

	for k := range tradKeys {
		if !statKeys[k] && k.Year != m.shortenedSeason {
			return apperrors.NewValidationError("traditional row outside the shortened season would be dropped").
				WithContext("player_id", k.PlayerID).
				WithContext("year", k.Year).
				WithContext("shortened_season", m.shortenedSeason)
		}
	}

	return nil
}

// keySet extracts the (player_id, year) keys of a table.
func keySet(df dataframe.DataFrame) map[domain.SeasonKey]bool {
	ids := df.Col(ingest.ColPlayerID).Float()
	years := df.Col(ingest.ColYear).Float()

	keys := make(map[domain.SeasonKey]bool, len(ids))
	for i := range ids {
		keys[domain.SeasonKey{PlayerID: int(ids[i]), Year: int(years[i])}] = true
	}
	return keys
}

// toRecords converts the merged dataframe into typed records.
func toRecords(df dataframe.DataFrame) []domain.PlayerSeason {
	ids := df.Col(ingest.ColPlayerID).Float()
	years := df.Col(ingest.ColYear).Float()
	firstNames := df.Col(ingest.ColFirstName).Records()
	lastNames := df.Col(ingest.ColLastName).Records()
	homeRuns := df.Col(ingest.ColHomeRuns).Float()
	strikeouts := df.Col(ingest.ColStrikeoutPct).Float()
	avgs := df.Col(ingest.ColBattingAvg).Float()
	slgs := df.Col(ingest.ColSluggingPct).Float()
	obps := df.Col(ingest.ColOnBasePct).Float()
	barrels := df.Col(ingest.ColBarrelRate).Float()
	whiffs := df.Col(ingest.ColWhiffPct).Float()
	ops := df.Col(ColOPS).Float()

	records := make([]domain.PlayerSeason, df.Nrow())
	for i := range records {
		records[i] = domain.PlayerSeason{
			PlayerID:     int(ids[i]),
			Year:         int(years[i]),
			FirstName:    cleanName(firstNames[i]),
			LastName:     cleanName(lastNames[i]),
			HomeRuns:     homeRuns[i],
			StrikeoutPct: strikeouts[i],
			BattingAvg:   avgs[i],
			SluggingPct:  slgs[i],
			OnBasePct:    obps[i],
			BarrelRate:   barrels[i],
			WhiffPct:     whiffs[i],
			OPS:          ops[i],
		}
	}
	return records
}

// cleanName normalizes a name cell; gota renders missing strings as "NaN".
func cleanName(s string) string {
	if s == "NaN" {
		return ""
	}
	return s
}

// HasMissing reports whether any metric value of a record is NaN. Useful to
// downstream queries that exclude gaps from their aggregates.
func HasMissing(rec domain.PlayerSeason) bool {
	for _, v := range []float64{
		rec.HomeRuns, rec.StrikeoutPct, rec.BattingAvg,
		rec.SluggingPct, rec.OnBasePct, rec.BarrelRate, rec.WhiffPct,
	} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
