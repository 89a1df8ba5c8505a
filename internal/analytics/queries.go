// Package analytics holds the aggregate queries of the season report. Each
// query is a stateless function taking the full merged table and returning a
// reduced result; none of them mutate their input. All means are simple
// arithmetic means with missing values excluded.
package analytics

import (
	"math"
	"sort"

	"sabercli/pkg/contracts/domain"
)

// OPSComparisonRow is one pivoted row of the top-OPS query: a player with
// one OPS cell per compared season. A cell is NaN when the player-season
// did not make the top-N cut.
type OPSComparisonRow struct {
	PlayerID int     `json:"player_id"`
	Player   string  `json:"player"`
	OPSA     float64 `json:"ops_season_a"`
	OPSB     float64 `json:"ops_season_b"`
}

// OPSComparisonTable is the result of the top-OPS query.
type OPSComparisonTable struct {
	SeasonA int                `json:"season_a"`
	SeasonB int                `json:"season_b"`
	Rows    []OPSComparisonRow `json:"rows"`
}

// TopOPSBySeasonPair filters the merged table to two seasons, ranks the
// remaining player-seasons by descending OPS, keeps the top n, and pivots
// them to one row per player with one column per season. Rows come out in
// non-increasing order of each player's best OPS.
func TopOPSBySeasonPair(records []domain.PlayerSeason, seasonA, seasonB, n int) OPSComparisonTable {
	filtered := make([]domain.PlayerSeason, 0, len(records))
	for _, rec := range records {
		if rec.Year != seasonA && rec.Year != seasonB {
			continue
		}
		if math.IsNaN(rec.OPS) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].OPS > filtered[j].OPS
	})
	if n > 0 && len(filtered) > n {
		filtered = filtered[:n]
	}

	table := OPSComparisonTable{SeasonA: seasonA, SeasonB: seasonB}
	rowIndex := make(map[int]int)
	for _, rec := range filtered {
		idx, ok := rowIndex[rec.PlayerID]
		if !ok {
			table.Rows = append(table.Rows, OPSComparisonRow{
				PlayerID: rec.PlayerID,
				Player:   rec.DisplayName(),
				OPSA:     math.NaN(),
				OPSB:     math.NaN(),
			})
			idx = len(table.Rows) - 1
			rowIndex[rec.PlayerID] = idx
		}
		if rec.Year == seasonA {
			table.Rows[idx].OPSA = rec.OPS
		} else {
			table.Rows[idx].OPSB = rec.OPS
		}
	}

	return table
}

// SeasonMeans is one row of the per-season discipline query: league-mean
// whiff and strikeout rates for a single year.
type SeasonMeans struct {
	Year             int     `json:"year"`
	MeanWhiffPct     float64 `json:"mean_whiff_percent"`
	MeanStrikeoutPct float64 `json:"mean_strikeout_percent"`
	Players          int     `json:"players"`
}

// MeansByYear groups the merged table by year and computes the mean whiff
// and strikeout percentages per season, excluding missing values. Results
// are ordered by ascending year.
func MeansByYear(records []domain.PlayerSeason) []SeasonMeans {
	whiffs := make(map[int][]float64)
	strikeouts := make(map[int][]float64)
	for _, rec := range records {
		whiffs[rec.Year] = append(whiffs[rec.Year], rec.WhiffPct)
		strikeouts[rec.Year] = append(strikeouts[rec.Year], rec.StrikeoutPct)
	}

	years := make([]int, 0, len(whiffs))
	for year := range whiffs {
		years = append(years, year)
	}
	sort.Ints(years)

	result := make([]SeasonMeans, 0, len(years))
	for _, year := range years {
		result = append(result, SeasonMeans{
			Year:             year,
			MeanWhiffPct:     Mean(whiffs[year]),
			MeanStrikeoutPct: Mean(strikeouts[year]),
			Players:          len(whiffs[year]),
		})
	}
	return result
}

// SurnameCount is one row of the surname frequency query.
type SurnameCount struct {
	LastName string `json:"last_name"`
	Count    int    `json:"count"`
}

// SurnameCounts counts merged rows per last name and returns the top n,
// ordered by descending count with ties broken alphabetically. A single
// player contributes at most one row per season, so a count above the
// number of seasons means the surname is shared by multiple players.
func SurnameCounts(records []domain.PlayerSeason, n int) []SurnameCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.LastName == "" {
			continue
		}
		counts[rec.LastName]++
	}

	result := make([]SurnameCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, SurnameCount{LastName: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].LastName < result[j].LastName
	})

	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// SeasonWhiffStat is one point of the whiff-by-year error-bar series: the
// per-season mean whiff rate with its standard error.
type SeasonWhiffStat struct {
	Year   int     `json:"year"`
	Mean   float64 `json:"mean"`
	StdErr float64 `json:"std_err"`
	Count  int     `json:"count"`
}

// WhiffByYear computes the mean and standard error of whiff_percent per
// season, excluding missing values, ordered by ascending year. This feeds
// the error-bar chart directly.
func WhiffByYear(records []domain.PlayerSeason) []SeasonWhiffStat {
	grouped := make(map[int][]float64)
	for _, rec := range records {
		grouped[rec.Year] = append(grouped[rec.Year], rec.WhiffPct)
	}

	years := make([]int, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Ints(years)

	result := make([]SeasonWhiffStat, 0, len(years))
	for _, year := range years {
		values := grouped[year]
		result = append(result, SeasonWhiffStat{
			Year:   year,
			Mean:   Mean(values),
			StdErr: StdErr(values),
			Count:  countValid(values),
		})
	}
	return result
}

// BarrelHomeRunPairs extracts the (barrel_rate, home_run) pairs for the
// scatter chart, skipping records where either side is missing.
func BarrelHomeRunPairs(records []domain.PlayerSeason) (xs, ys []float64) {
	for _, rec := range records {
		if math.IsNaN(rec.BarrelRate) || math.IsNaN(rec.HomeRuns) {
			continue
		}
		xs = append(xs, rec.BarrelRate)
		ys = append(ys, rec.HomeRuns)
	}
	return xs, ys
}
