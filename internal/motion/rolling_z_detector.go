package motion

import (
	"strconv"

	"github.com/castle8080/lifewatch/internal/frame"
)

// RollingZDetector wraps an inner Detector and AND-gates its verdict behind
// a RollingZ z-score threshold: motion is only reported as detected when
// both the inner detector fires AND the z-score of its raw score is at
// least ZThreshold. The reported Score.Score is the z-score itself, not the
// inner detector's raw score, so callers can rank events by how anomalous
// they are relative to recent history.
type RollingZDetector struct {
	Inner      Detector
	RollingZ   *RollingZ
	ZThreshold float64
}

// NewRollingZDetector builds a RollingZDetector with a fresh RollingZ using
// the given EWMA alpha.
func NewRollingZDetector(inner Detector, alpha, zThreshold float64) *RollingZDetector {
	return &RollingZDetector{Inner: inner, RollingZ: NewRollingZ(alpha), ZThreshold: zThreshold}
}

func (d *RollingZDetector) DetectMotion(prev, cur *frame.YPlane) (Score, error) {
	inner, err := d.Inner.DetectMotion(prev, cur)
	if err != nil {
		return Score{}, err
	}

	z := d.RollingZ.Update(inner.Score)
	detected := inner.Detected && z >= d.ZThreshold

	props := map[string]string{
		"rolling_z":                     formatFloat(z),
		"rolling_z_underlying_score":    formatFloat(inner.Score),
		"rolling_z_underlying_detected": strconv.FormatBool(inner.Detected),
	}
	for k, v := range inner.Properties {
		props[k] = v
	}

	return Score{Score: z, Detected: detected, Properties: props}, nil
}
