package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sabercli/pkg/contracts/domain"
)

func season(id int, first, last string, year int, ops float64) domain.PlayerSeason {
	return domain.PlayerSeason{
		PlayerID:  id,
		FirstName: first,
		LastName:  last,
		Year:      year,
		OPS:       ops,
	}
}

func TestTopOPSBySeasonPair_OrderAndFilter(t *testing.T) {
	records := []domain.PlayerSeason{
		season(1, "Mike", "Trout", 2019, 1.083),
		season(2, "Mookie", "Betts", 2019, 0.915),
		season(1, "Mike", "Trout", 2021, 0.876),
		season(3, "Juan", "Soto", 2018, 0.923), // outside the season pair
		season(4, "Aaron", "Judge", 2021, 0.916),
	}

	table := TopOPSBySeasonPair(records, 2019, 2021, 10)

	assert.Equal(t, 2019, table.SeasonA)
	assert.Equal(t, 2021, table.SeasonB)

	// 2018 must not appear; Trout pivots into a single row.
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Mike Trout", table.Rows[0].Player)
	assert.Equal(t, 1.083, table.Rows[0].OPSA)
	assert.Equal(t, 0.876, table.Rows[0].OPSB)
	assert.Equal(t, "Aaron Judge", table.Rows[1].Player)
	assert.Equal(t, "Mookie Betts", table.Rows[2].Player)

	// Non-increasing by each player's best OPS.
	best := func(r OPSComparisonRow) float64 {
		if math.IsNaN(r.OPSB) || r.OPSA >= r.OPSB {
			return r.OPSA
		}
		return r.OPSB
	}
	for i := 1; i < len(table.Rows); i++ {
		assert.GreaterOrEqual(t, best(table.Rows[i-1]), best(table.Rows[i]))
	}
}

func TestTopOPSBySeasonPair_TopNCut(t *testing.T) {
	records := []domain.PlayerSeason{
		season(1, "A", "One", 2019, 0.9),
		season(2, "B", "Two", 2019, 0.8),
		season(3, "C", "Three", 2019, 0.7),
	}

	table := TopOPSBySeasonPair(records, 2019, 2021, 2)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A One", table.Rows[0].Player)
	assert.Equal(t, "B Two", table.Rows[1].Player)
	assert.True(t, math.IsNaN(table.Rows[0].OPSB), "no 2021 row made the cut")
}

func TestTopOPSBySeasonPair_SkipsMissingOPS(t *testing.T) {
	records := []domain.PlayerSeason{
		season(1, "A", "One", 2019, math.NaN()),
		season(2, "B", "Two", 2019, 0.8),
	}

	table := TopOPSBySeasonPair(records, 2019, 2021, 10)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "B Two", table.Rows[0].Player)
}

func TestMeansByYear(t *testing.T) {
	records := []domain.PlayerSeason{
		{Year: 2019, WhiffPct: 20, StrikeoutPct: 22},
		{Year: 2019, WhiffPct: 30, StrikeoutPct: math.NaN()},
		{Year: 2018, WhiffPct: math.NaN(), StrikeoutPct: 10},
		{Year: 2018, WhiffPct: 10, StrikeoutPct: 14},
	}

	means := MeansByYear(records)
	require.Len(t, means, 2)

	// Ordered by ascending year.
	assert.Equal(t, 2018, means[0].Year)
	assert.Equal(t, 2019, means[1].Year)

	// {NaN, 10} yields 10: missing values shrink the denominator.
	assert.Equal(t, 10.0, means[0].MeanWhiffPct)
	assert.Equal(t, 12.0, means[0].MeanStrikeoutPct)
	assert.Equal(t, 25.0, means[1].MeanWhiffPct)
	assert.Equal(t, 22.0, means[1].MeanStrikeoutPct)
}

func TestSurnameCounts(t *testing.T) {
	var records []domain.PlayerSeason
	// One player across five seasons: count stays at 5.
	for _, year := range []int{2016, 2017, 2018, 2019, 2021} {
		records = append(records, season(1, "Mike", "Trout", year, 1.0))
	}
	// Two distinct players sharing a surname: count may exceed 5.
	for _, year := range []int{2016, 2017, 2018, 2019, 2021} {
		records = append(records, season(2, "Willy", "Garcia", year, 0.7))
	}
	for _, year := range []int{2018, 2019} {
		records = append(records, season(3, "Avisail", "Garcia", year, 0.8))
	}
	records = append(records, season(4, "Juan", "Soto", 2019, 0.9))

	counts := SurnameCounts(records, 10)
	require.Len(t, counts, 3)

	assert.Equal(t, SurnameCount{LastName: "Garcia", Count: 7}, counts[0])
	assert.Equal(t, SurnameCount{LastName: "Trout", Count: 5}, counts[1])
	assert.Equal(t, SurnameCount{LastName: "Soto", Count: 1}, counts[2])

	// Per-player contribution never exceeds the number of seasons.
	perPlayer := make(map[int]int)
	for _, rec := range records {
		perPlayer[rec.PlayerID]++
	}
	for id, n := range perPlayer {
		assert.LessOrEqual(t, n, 5, "player %d", id)
	}
}

func TestSurnameCounts_TopNAndTies(t *testing.T) {
	records := []domain.PlayerSeason{
		season(1, "A", "Ramirez", 2019, 0.9),
		season(2, "B", "Anderson", 2019, 0.9),
		season(3, "C", "Zimmerman", 2019, 0.9),
	}

	counts := SurnameCounts(records, 2)
	require.Len(t, counts, 2)
	// Ties break alphabetically.
	assert.Equal(t, "Anderson", counts[0].LastName)
	assert.Equal(t, "Ramirez", counts[1].LastName)
}

func TestWhiffByYear(t *testing.T) {
	records := []domain.PlayerSeason{
		{Year: 2019, WhiffPct: 20},
		{Year: 2019, WhiffPct: 30},
		{Year: 2019, WhiffPct: math.NaN()},
		{Year: 2018, WhiffPct: 15},
	}

	stats := WhiffByYear(records)
	require.Len(t, stats, 2)

	assert.Equal(t, 2018, stats[0].Year)
	assert.Equal(t, 15.0, stats[0].Mean)
	assert.True(t, math.IsNaN(stats[0].StdErr), "single value has no standard error")
	assert.Equal(t, 1, stats[0].Count)

	assert.Equal(t, 25.0, stats[1].Mean)
	assert.Equal(t, 2, stats[1].Count)
	// StdErr of {20, 30}: sd ~7.071, /sqrt(2) = 5.
	assert.InDelta(t, 5.0, stats[1].StdErr, 1e-9)
}

func TestBarrelHomeRunPairs(t *testing.T) {
	records := []domain.PlayerSeason{
		{BarrelRate: 10, HomeRuns: 30},
		{BarrelRate: math.NaN(), HomeRuns: 20},
		{BarrelRate: 8, HomeRuns: math.NaN()},
		{BarrelRate: 12, HomeRuns: 40},
	}

	xs, ys := BarrelHomeRunPairs(records)
	assert.Equal(t, []float64{10, 12}, xs)
	assert.Equal(t, []float64{30, 40}, ys)
}
