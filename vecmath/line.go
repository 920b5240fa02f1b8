package vecmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// minLinePoints is the fewest peak samples a line fit accepts.
const minLinePoints = 4

// DetectLine looks for a single straight ridge in a square window whose rows
// run along +Y and columns along +X. For every row (and separately every
// column) it takes the index of the strongest cell, drops lines whose peak is
// empty or sits on the window edge, and fits a least-squares line through the
// remaining peaks. The returned heading is one of the two directions along
// that line; callers disambiguate. ok is false when neither scan leaves at
// least minLinePoints samples.
func DetectLine(window mat.Matrix) (heading float64, ok bool) {
	rowIdx, rowPeak := linePeaks(window, false)
	colIdx, colPeak := linePeaks(window, true)

	rowFit, rowOK := fitSlope(rowIdx, rowPeak)
	colFit, colOK := fitSlope(colIdx, colPeak)

	var dir r2.Vec
	switch {
	case rowOK && (!colOK || math.Abs(rowFit) <= 1):
		// x = a + b*y
		dir = r2.Vec{X: rowFit, Y: 1}
	case colOK:
		// y = a + b*x
		dir = r2.Vec{X: 1, Y: colFit}
	default:
		return 0, false
	}

	h, err := VectorToHeading(dir)
	if err != nil {
		return 0, false
	}
	return h, true
}

// linePeaks scans the window line by line and returns, for each line with a
// usable peak, the line index and the peak position along it.
func linePeaks(m mat.Matrix, byColumn bool) (idx, peak []float64) {
	rows, cols := m.Dims()
	lines, span := rows, cols
	if byColumn {
		lines, span = cols, rows
	}

	for i := 0; i < lines; i++ {
		best, bestJ := 0.0, -1
		for j := 0; j < span; j++ {
			var v float64
			if byColumn {
				v = m.At(j, i)
			} else {
				v = m.At(i, j)
			}
			if v > best {
				best, bestJ = v, j
			}
		}
		if bestJ <= 0 || bestJ >= span-1 {
			continue
		}
		idx = append(idx, float64(i))
		peak = append(peak, float64(bestJ))
	}
	return idx, peak
}

func fitSlope(x, y []float64) (float64, bool) {
	if len(x) < minLinePoints {
		return 0, false
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, false
	}
	return beta, true
}
