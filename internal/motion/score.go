// Package motion implements the Y-plane motion detectors: a boxed-average
// grid comparator, a raw-percentile histogram comparator, and a RollingZ
// wrapper that gates either one behind an EWMA z-score.
package motion

import (
	"fmt"
	"strconv"

	"github.com/castle8080/lifewatch/internal/frame"
)

// Score is the result of comparing two Y-planes for motion. Properties
// carries detector-specific diagnostics (e.g. "percentile", "rolling_z") as
// formatted strings, matching the daemon's MotionDetectionScore.properties
// map, for logging and the stored detections record.
type Score struct {
	Score      float64
	Detected   bool
	Properties map[string]string
}

// formatFloat renders a float the way the original daemon's format!("{}", x)
// does: the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s Score) String() string {
	return fmt.Sprintf("Score{score=%.6f, detected=%v, properties=%v}", s.Score, s.Detected, s.Properties)
}

// Detector compares two same-sized Y-planes (previous and current) and
// reports whether motion occurred between them.
type Detector interface {
	DetectMotion(prev, cur *frame.YPlane) (Score, error)
}
