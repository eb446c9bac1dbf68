package motion

import (
	"math"
	"sort"

	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/lwerror"
)

// BoxedAverage divides both planes into a BoxSize x BoxSize grid of cells
// (the last row/column absorb any remainder so every pixel is covered
// exactly once), takes the absolute difference of each cell's mean luma
// between the two planes, then reports the Percentile-th value
// (nearest-rank) across all cells as the frame's motion score. Detected is
// true when that value is at least Threshold.
type BoxedAverage struct {
	BoxSize    int
	Percentile float64 // in [0, 1]
	Threshold  float64
}

func (d BoxedAverage) DetectMotion(prev, cur *frame.YPlane) (Score, error) {
	const op = "BoxedAverage.DetectMotion"
	if prev.Width != cur.Width || prev.Height != cur.Height {
		return Score{}, lwerror.New(lwerror.KindImage, op, "plane size mismatch: %dx%d vs %dx%d", prev.Width, prev.Height, cur.Width, cur.Height)
	}
	if d.BoxSize <= 0 {
		return Score{}, lwerror.New(lwerror.KindImage, op, "box_size must be positive, got %d", d.BoxSize)
	}

	averages, err := computeBoxedAverages(prev, cur, d.BoxSize)
	if err != nil {
		return Score{}, err
	}

	sorted := append([]float64(nil), averages...)
	sort.Float64s(sorted)
	idx := nearestRankIndex(len(sorted), d.Percentile)
	score := sorted[idx]

	return Score{
		Score:      score,
		Detected:   score >= d.Threshold,
		Properties: map[string]string{"percentile": formatFloat(d.Percentile)},
	}, nil
}

// computeBoxedAverages divides each axis into BoxSize boxes (box_width =
// width/BoxSize, box_height = height/BoxSize; the last box on each axis
// absorbs whatever remainder pixels don't divide evenly) and returns, for
// each of the BoxSize*BoxSize cells in row-major order, the normalized
// absolute difference between the two planes' mean luma in that cell.
func computeBoxedAverages(prev, cur *frame.YPlane, boxSize int) ([]float64, error) {
	const op = "computeBoxedAverages"
	width, height := prev.Width, prev.Height

	boxWidth := width / boxSize
	boxHeight := height / boxSize
	if boxWidth == 0 || boxHeight == 0 {
		return nil, lwerror.New(lwerror.KindImage, op, "image %dx%d is too small for %d divisions", width, height, boxSize)
	}

	out := make([]float64, 0, boxSize*boxSize)

	for by := 0; by < boxSize; by++ {
		startY := by * boxHeight
		endY := (by + 1) * boxHeight
		if by == boxSize-1 {
			endY = height
		}

		for bx := 0; bx < boxSize; bx++ {
			startX := bx * boxWidth
			endX := (bx + 1) * boxWidth
			if bx == boxSize-1 {
				endX = width
			}

			var sumPrev, sumCur float64
			count := 0
			for y := startY; y < endY; y++ {
				for x := startX; x < endX; x++ {
					pv, err := prev.At(x, y)
					if err != nil {
						return nil, err
					}
					cv, err := cur.At(x, y)
					if err != nil {
						return nil, err
					}
					sumPrev += float64(pv)
					sumCur += float64(cv)
					count++
				}
			}

			avgPrev := sumPrev / float64(count)
			avgCur := sumCur / float64(count)
			out = append(out, math.Abs(avgPrev-avgCur)/255.0)
		}
	}

	return out, nil
}

func absDiff(a, b byte) byte {
	if a > b {
		return a - b
	}
	return b - a
}

// nearestRankIndex maps a percentile in [0,1] to an index into a sorted
// slice of length n using round(percentile*(n-1)).
func nearestRankIndex(n int, percentile float64) int {
	p := percentile
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
