package motion

import "math"

// RollingZ maintains an exponentially-weighted weight/first-moment/
// second-moment triple and reports the z-score of each new sample against
// the distribution *after* folding that sample in. Non-finite updates
// (NaN/Inf) are silently skipped, since a single bad frame score should
// never poison the running statistics.
type RollingZ struct {
	Alpha float64
	w     float64
	s1    float64
	s2    float64
}

// NewRollingZ builds a RollingZ with the given EWMA smoothing factor.
func NewRollingZ(alpha float64) *RollingZ {
	return &RollingZ{Alpha: alpha}
}

// NewRollingZHalfLife builds a RollingZ whose alpha is derived from a
// half-life expressed in samples: alpha = 1 - 0.5^(1/halfLifeSamples).
func NewRollingZHalfLife(halfLifeSamples float64) *RollingZ {
	alpha := 1 - math.Pow(0.5, 1/halfLifeSamples)
	return NewRollingZ(alpha)
}

// Ingest folds x into the running moments without computing a z-score.
// Non-finite x is a no-op.
func (r *RollingZ) Ingest(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	a := r.Alpha
	r.w = (1-a)*r.w + a
	r.s1 = (1-a)*r.s1 + a*x
	r.s2 = (1-a)*r.s2 + a*x*x
}

// Update ingests x, then returns its z-score relative to the updated
// rolling distribution. Returns 0 if there isn't yet enough information
// (no samples, or zero variance).
func (r *RollingZ) Update(x float64) float64 {
	r.Ingest(x)

	std := math.Sqrt(r.Variance())
	if r.w <= 0 || std <= 0 {
		return 0
	}
	return (x - r.Mean()) / std
}

// Mean returns the current running mean.
func (r *RollingZ) Mean() float64 {
	if r.w <= 0 {
		return 0
	}
	return r.s1 / r.w
}

// Variance returns the current running variance.
func (r *RollingZ) Variance() float64 {
	if r.w <= 0 {
		return 0
	}
	mean := r.s1 / r.w
	secondMoment := r.s2 / r.w
	v := secondMoment - mean*mean
	if v < 0 {
		return 0
	}
	return v
}
