package merge

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sabercli/internal/errors"
	"sabercli/pkg/contracts/domain"
)

func readFrame(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv),
		dataframe.HasHeader(true),
		dataframe.NaNValues([]string{"", "NA", "NaN"}),
	)
	require.NoError(t, df.Err)
	return df
}

func traditionalFixture(t *testing.T) dataframe.DataFrame {
	return readFrame(t, `last_name,first_name,player_id,year,home_run,strikeout_percent,batting_average,slugging_percent,on_base_percent
Trout,Mike,545361,2019,45,20.0,0.291,0.645,0.438
Trout,Mike,545361,2020,17,23.6,0.281,0.603,0.390
Betts,Mookie,605141,2019,29,14.3,0.295,0.524,0.391
Betts,Mookie,605141,2020,16,15.2,0.292,0.562,0.366
Judge,Aaron,592450,2019,27,31.6,0.272,0.540,0.381
`)
}

func statcastFixture(t *testing.T) dataframe.DataFrame {
	return readFrame(t, `last_name,first_name,player_id,year,barrel_rate,whiff_percent
Trout,Mike,545361,2019,18.4,26.7
Betts,Mookie,605141,2019,8.9,15.9
Judge,Aaron,592450,2019,19.9,33.4
`)
}

func TestMerge_KeepsAllStatcastRows(t *testing.T) {
	merger := NewMerger(nil, 2020)

	records, err := merger.Merge(traditionalFixture(t), statcastFixture(t))
	require.NoError(t, err)

	// Output size equals the statcast table: the two 2020 rows drop out.
	assert.Len(t, records, 3)
	for _, rec := range records {
		assert.NotEqual(t, 2020, rec.Year)
	}
}

func TestMerge_EveryKeyExistsInBothSources(t *testing.T) {
	traditional := traditionalFixture(t)
	statcast := statcastFixture(t)
	merger := NewMerger(nil, 2020)

	records, err := merger.Merge(traditional, statcast)
	require.NoError(t, err)

	tradKeys := keySet(traditional)
	statKeys := keySet(statcast)
	for _, rec := range records {
		assert.True(t, tradKeys[rec.Key()], "key missing from traditional: %+v", rec.Key())
		assert.True(t, statKeys[rec.Key()], "key missing from statcast: %+v", rec.Key())
	}
}

func TestMerge_OPSIsExactSum(t *testing.T) {
	merger := NewMerger(nil, 2020)

	records, err := merger.Merge(traditionalFixture(t), statcastFixture(t))
	require.NoError(t, err)

	for _, rec := range records {
		assert.Equal(t, rec.OnBasePct+rec.SluggingPct, rec.OPS,
			"ops must be the exact float sum for %s", rec.DisplayName())
	}
}

func TestMerge_MergedFieldsComeFromBothSides(t *testing.T) {
	merger := NewMerger(nil, 2020)

	records, err := merger.Merge(traditionalFixture(t), statcastFixture(t))
	require.NoError(t, err)

	byKey := make(map[domain.SeasonKey]domain.PlayerSeason)
	for _, rec := range records {
		byKey[rec.Key()] = rec
	}

	trout := byKey[domain.SeasonKey{PlayerID: 545361, Year: 2019}]
	assert.Equal(t, "Mike Trout", trout.DisplayName())
	assert.Equal(t, 45.0, trout.HomeRuns)
	assert.Equal(t, 18.4, trout.BarrelRate)
	assert.Equal(t, 26.7, trout.WhiffPct)
}

func TestMerge_NonShortenedDropRejected(t *testing.T) {
	traditional := readFrame(t, `last_name,first_name,player_id,year,home_run,strikeout_percent,batting_average,slugging_percent,on_base_percent
Trout,Mike,545361,2019,45,20.0,0.291,0.645,0.438
Soto,Juan,665742,2019,34,20.0,0.282,0.548,0.401
`)
	statcast := readFrame(t, `last_name,first_name,player_id,year,barrel_rate,whiff_percent
Trout,Mike,545361,2019,18.4,26.7
`)
	merger := NewMerger(nil, 2020)

	_, err := merger.Merge(traditional, statcast)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "shortened")
}

func TestMerge_StatcastOrphanRejected(t *testing.T) {
	traditional := readFrame(t, `last_name,first_name,player_id,year,home_run,strikeout_percent,batting_average,slugging_percent,on_base_percent
Trout,Mike,545361,2019,45,20.0,0.291,0.645,0.438
`)
	statcast := readFrame(t, `last_name,first_name,player_id,year,barrel_rate,whiff_percent
Trout,Mike,545361,2019,18.4,26.7
Soto,Juan,665742,2019,13.4,21.8
`)
	merger := NewMerger(nil, 2020)

	_, err := merger.Merge(traditional, statcast)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "no traditional counterpart")
}

func TestHasMissing(t *testing.T) {
	rec := domain.PlayerSeason{WhiffPct: 15.9, BarrelRate: 8.9}
	assert.False(t, HasMissing(rec))

	rec.WhiffPct = math.NaN()
	assert.True(t, HasMissing(rec))
}
