package motion

import (
	"math"

	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/lwerror"
)

// Percentile buckets every per-pixel absolute difference into a 256-bin
// histogram (one bin per possible byte difference) and finds the
// Percentile-th value via nearest-rank without ever sorting the raw
// samples. SampleStep lets callers subsample (1 = every pixel).
type Percentile struct {
	Percentile float64 // in [0, 1]
	Threshold  float64
	SampleStep int
}

func (d Percentile) DetectMotion(prev, cur *frame.YPlane) (Score, error) {
	const op = "Percentile.DetectMotion"
	if prev.Width != cur.Width || prev.Height != cur.Height {
		return Score{}, lwerror.New(lwerror.KindImage, op, "plane size mismatch: %dx%d vs %dx%d", prev.Width, prev.Height, cur.Width, cur.Height)
	}
	step := d.SampleStep
	if step <= 0 {
		step = 1
	}

	score, err := getMotionPercentile(prev, cur, step, d.Percentile)
	if err != nil {
		return Score{}, err
	}

	return Score{
		Score:      score,
		Detected:   score >= d.Threshold,
		Properties: map[string]string{"percentile": formatFloat(d.Percentile)},
	}, nil
}

// getMotionPercentile computes the nearest-rank percentile of per-pixel
// absolute differences, sampling every sampleStep-th pixel in each
// dimension, using a 256-bin histogram so it never has to sort the samples.
func getMotionPercentile(prev, cur *frame.YPlane, sampleStep int, percentile float64) (float64, error) {
	const op = "getMotionPercentile"
	if percentile < 0 || percentile > 1 || math.IsNaN(percentile) {
		return 0, lwerror.New(lwerror.KindImage, op, "percentile must be in [0, 1], got %v", percentile)
	}

	var histogram [256]int
	total := 0

	for y := 0; y < prev.Height; y += sampleStep {
		for x := 0; x < prev.Width; x += sampleStep {
			pv, err := prev.At(x, y)
			if err != nil {
				return 0, err
			}
			cv, err := cur.At(x, y)
			if err != nil {
				return 0, err
			}
			histogram[absDiff(pv, cv)]++
			total++
		}
	}

	if total == 0 {
		return 0, lwerror.New(lwerror.KindImage, op, "no pixels sampled from %dx%d plane", prev.Width, prev.Height)
	}

	// Nearest-rank: r = clamp(ceil(p*N), 1, N).
	rank := int(math.Ceil(percentile * float64(total)))
	if rank < 1 {
		rank = 1
	}
	if rank > total {
		rank = total
	}
	cumulative := 0
	for bin, count := range histogram {
		cumulative += count
		if cumulative >= rank {
			return float64(bin) / 255.0, nil
		}
	}
	return 1.0, nil
}
