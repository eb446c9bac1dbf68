package motion

import (
	"math"
	"testing"

	"github.com/castle8080/lifewatch/internal/frame"
)

// Ported from the original rolling-z unit tests: repeatedly feeding the
// same value should keep the z-score near zero, and feeding a constant
// value long enough should pull the running mean to that value.
func TestRollingZRepeatedIdenticalValueNearZero(t *testing.T) {
	rz := NewRollingZ(0.1)
	var lastZ float64
	for i := 0; i < 50; i++ {
		lastZ = rz.Update(42.0)
	}
	if math.Abs(lastZ) > 1e-9 {
		t.Fatalf("z = %v, want ~0 for repeated identical input", lastZ)
	}
	if math.Abs(rz.Mean()-42.0) > 1e-6 {
		t.Fatalf("mean = %v, want ~42", rz.Mean())
	}
}

func TestRollingZConverges(t *testing.T) {
	rz := NewRollingZ(0.2)
	for i := 0; i < 200; i++ {
		rz.Update(10.0)
	}
	if math.Abs(rz.Mean()-10.0) > 1e-3 {
		t.Fatalf("mean = %v, want ~10 after convergence", rz.Mean())
	}
}

func TestRollingZSkipsNonFinite(t *testing.T) {
	rz := NewRollingZ(0.1)
	rz.Update(5.0)
	meanBefore := rz.Mean()
	rz.Update(math.NaN())
	rz.Update(math.Inf(1))
	if rz.Mean() != meanBefore {
		t.Fatalf("mean changed after non-finite updates: %v != %v", rz.Mean(), meanBefore)
	}
}

func TestRollingZHalfLifeAlpha(t *testing.T) {
	rz := NewRollingZHalfLife(10)
	wantAlpha := 1 - math.Pow(0.5, 1.0/10)
	if math.Abs(rz.Alpha-wantAlpha) > 1e-12 {
		t.Fatalf("alpha = %v, want %v", rz.Alpha, wantAlpha)
	}
}

func TestRollingZDetectorANDGates(t *testing.T) {
	inner := stubDetector{score: 5.0, detected: true}
	d := NewRollingZDetector(inner, 0.1, 2.0)

	// Warm up the rolling z so variance is non-trivial.
	for i := 0; i < 20; i++ {
		d.Inner = stubDetector{score: 1.0 + float64(i%2), detected: true}
		if _, err := d.DetectMotion(nil, nil); err != nil {
			t.Fatalf("warm-up DetectMotion: %v", err)
		}
	}

	d.Inner = stubDetector{score: 100.0, detected: true}
	score, err := d.DetectMotion(nil, nil)
	if err != nil {
		t.Fatalf("DetectMotion: %v", err)
	}
	if !score.Detected {
		t.Fatal("expected large deviation to be detected")
	}
	if score.Properties["rolling_z_underlying_detected"] != "true" {
		t.Fatal("expected underlying-detected diagnostic to be true")
	}

	d.Inner = stubDetector{score: 100.0, detected: false}
	score, err = d.DetectMotion(nil, nil)
	if err != nil {
		t.Fatalf("DetectMotion: %v", err)
	}
	if score.Detected {
		t.Fatal("inner detector reporting no motion should gate out detection regardless of z")
	}
}

type stubDetector struct {
	score    float64
	detected bool
}

func (s stubDetector) DetectMotion(prev, cur *frame.YPlane) (Score, error) {
	return Score{Score: s.score, Detected: s.detected, Properties: map[string]string{}}, nil
}
