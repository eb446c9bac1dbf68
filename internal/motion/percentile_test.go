package motion

import "testing"

// Ported from the original image-diff motion detector's unit tests:
// identical planes score 0.0, and a single maximally-different pixel among
// many identical ones should still push the percentile score toward 1.0.
func TestPercentileIdenticalPlanesZeroScore(t *testing.T) {
	prev := makePlane(16, 16, 50)
	cur := makePlane(16, 16, 50)

	d := Percentile{Percentile: 0.98, Threshold: 0.02, SampleStep: 1}
	score, err := d.DetectMotion(prev, cur)
	if err != nil {
		t.Fatalf("DetectMotion: %v", err)
	}
	if score.Score != 0 {
		t.Fatalf("score = %v, want 0", score.Score)
	}
	if score.Detected {
		t.Fatal("identical planes should not be detected as motion")
	}
}

func TestPercentileSinglePixelMaxDiffScoresOne(t *testing.T) {
	prev := makePlane(16, 16, 0)
	cur := makePlane(16, 16, 0)
	cur.Data[0] = 255

	// With 256 pixels and percentile 1.0, the single max-diff pixel should
	// be the reported rank.
	d := Percentile{Percentile: 1.0, Threshold: 0.0, SampleStep: 1}
	score, err := d.DetectMotion(prev, cur)
	if err != nil {
		t.Fatalf("DetectMotion: %v", err)
	}
	if score.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", score.Score)
	}
	if !score.Detected {
		t.Fatal("expected motion to be detected")
	}
}

func TestPercentileSampleStepSubsamples(t *testing.T) {
	prev := makePlane(4, 4, 0)
	cur := makePlane(4, 4, 0)
	cur.Data[1] = 255 // at (1,0), skipped when sampleStep=2

	d := Percentile{Percentile: 1.0, Threshold: 0.0, SampleStep: 2}
	score, err := d.DetectMotion(prev, cur)
	if err != nil {
		t.Fatalf("DetectMotion: %v", err)
	}
	if score.Score != 0 {
		t.Fatalf("score = %v, want 0 (diff pixel not sampled)", score.Score)
	}
}
