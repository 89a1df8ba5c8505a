package chart

import (
	"math"
	"sort"
)

// Loess fits a locally weighted linear regression (tricube weights) through
// the given points and returns the smoothed curve evaluated on an evenly
// spaced grid across the x range. span is the fraction of points used for
// each local fit, clamped to [0.1, 1]. The input slices are not modified.
func Loess(xs, ys []float64, span float64, gridSize int) (gx, gy []float64) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return nil, nil
	}
	if gridSize < 2 {
		gridSize = 2
	}
	if span < 0.1 {
		span = 0.1
	}
	if span > 1 {
		span = 1
	}

	// Work on sorted copies; the window search walks the x axis.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return xs[order[i]] < xs[order[j]] })
	sx := make([]float64, n)
	sy := make([]float64, n)
	for i, idx := range order {
		sx[i] = xs[idx]
		sy[i] = ys[idx]
	}

	window := int(math.Ceil(span * float64(n)))
	if window < 2 {
		window = 2
	}
	if window > n {
		window = n
	}

	minX, maxX := sx[0], sx[n-1]
	gx = make([]float64, gridSize)
	gy = make([]float64, gridSize)
	step := (maxX - minX) / float64(gridSize-1)

	for g := 0; g < gridSize; g++ {
		x0 := minX + float64(g)*step
		lo := windowStart(sx, x0, window)

		// Tricube weights over the window, then weighted least squares.
		dmax := 0.0
		for i := lo; i < lo+window; i++ {
			if d := math.Abs(sx[i] - x0); d > dmax {
				dmax = d
			}
		}
		if dmax == 0 {
			dmax = 1
		}

		var sw, swx, swy, swxx, swxy float64
		for i := lo; i < lo+window; i++ {
			d := math.Abs(sx[i]-x0) / dmax
			w := 1 - d*d*d
			w = w * w * w
			sw += w
			swx += w * sx[i]
			swy += w * sy[i]
			swxx += w * sx[i] * sx[i]
			swxy += w * sx[i] * sy[i]
		}

		gx[g] = x0
		if sw == 0 {
			// Every window point sits at the maximum distance, so all
			// tricube weights vanish. Fall back to the unweighted mean.
			var sum float64
			for i := lo; i < lo+window; i++ {
				sum += sy[i]
			}
			gy[g] = sum / float64(window)
			continue
		}
		denom := sw*swxx - swx*swx
		if math.Abs(denom) < 1e-12 {
			gy[g] = swy / sw
			continue
		}
		slope := (sw*swxy - swx*swy) / denom
		intercept := (swy - slope*swx) / sw
		gy[g] = intercept + slope*x0
	}

	return gx, gy
}

// windowStart returns the start index of the window-sized slice of sorted
// xs closest to x0.
func windowStart(sx []float64, x0 float64, window int) int {
	lo := 0
	for lo < len(sx)-window {
		if math.Abs(sx[lo+window]-x0) < math.Abs(sx[lo]-x0) {
			lo++
		} else {
			break
		}
	}
	return lo
}
