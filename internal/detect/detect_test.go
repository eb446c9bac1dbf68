package detect

import (
	"errors"
	"image"
	"testing"
)

func TestDetectionCenter(t *testing.T) {
	d := Detection{X: 10, Y: 20, Width: 4, Height: 6}
	x, y := d.Center()
	if x != 12 || y != 23 {
		t.Fatalf("Center() = (%v, %v), want (12, 23)", x, y)
	}
}

func TestResultHasEmbeddings(t *testing.T) {
	if (Result{}).HasEmbeddings() {
		t.Fatal("empty Result should not report embeddings")
	}
	r := Result{Embeddings: []float32{0.1, 0.2}}
	if !r.HasEmbeddings() {
		t.Fatal("Result with embeddings should report true")
	}
}

func TestStubReturnsConfiguredResult(t *testing.T) {
	want := Result{Detections: []Detection{{ClassName: "fox"}}}
	s := Stub{Result: want}
	got, err := s.Detect(image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(got.Detections) != 1 || got.Detections[0].ClassName != "fox" {
		t.Fatalf("Detect() = %+v, want %+v", got, want)
	}
}

func TestStubReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("model unavailable")
	s := Stub{Err: wantErr}
	if _, err := s.Detect(image.NewGray(image.Rect(0, 0, 1, 1))); err != wantErr {
		t.Fatalf("Detect() err = %v, want %v", err, wantErr)
	}
}
