package analytics

import (
	"math"
)

// Mean returns the arithmetic mean of values, excluding NaN entries. A slice
// with no usable values yields NaN. Missing values shrink the denominator
// rather than counting as zero: {NaN, 10} has mean 10, not 5.
func Mean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StdDev returns the sample standard deviation of values, excluding NaN
// entries. Fewer than two usable values yield NaN.
func StdDev(values []float64) float64 {
	mean := Mean(values)
	if math.IsNaN(mean) {
		return math.NaN()
	}

	var sumSq float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sumSq += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// StdErr returns the standard error of the mean of values, excluding NaN
// entries.
func StdErr(values []float64) float64 {
	sd := StdDev(values)
	if math.IsNaN(sd) {
		return math.NaN()
	}
	n := countValid(values)
	return sd / math.Sqrt(float64(n))
}

func countValid(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
