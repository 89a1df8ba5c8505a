package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"simple", []float64{1, 2, 3}, 2},
		{"single", []float64{10}, 10},
		{"missing excluded not zeroed", []float64{math.NaN(), 10}, 10},
		{"all but one missing", []float64{math.NaN(), math.NaN(), 6}, 6},
		{"negative values", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mean(tt.values))
		})
	}
}

func TestMean_NoUsableValues(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{})))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN(), math.NaN()})))
}

func TestStdDev(t *testing.T) {
	// Sample standard deviation of {2, 4, 4, 4, 5, 5, 7, 9} is ~2.138.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.138, StdDev(values), 0.001)

	// NaN entries must not contribute.
	withGaps := []float64{2, math.NaN(), 4, 4, 4, 5, 5, math.NaN(), 7, 9}
	assert.Equal(t, StdDev(values), StdDev(withGaps))
}

func TestStdDev_TooFewValues(t *testing.T) {
	assert.True(t, math.IsNaN(StdDev([]float64{5})))
	assert.True(t, math.IsNaN(StdDev(nil)))
	assert.True(t, math.IsNaN(StdDev([]float64{5, math.NaN()})))
}

func TestStdErr(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	want := StdDev(values) / math.Sqrt(8)
	assert.Equal(t, want, StdErr(values))

	// The denominator counts only usable values.
	withGaps := []float64{2, 4, 4, 4, 5, 5, 7, 9, math.NaN(), math.NaN()}
	assert.Equal(t, want, StdErr(withGaps))
}
