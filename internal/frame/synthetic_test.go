package frame

import (
	"context"
	"testing"

	"github.com/castle8080/lifewatch/internal/fourcc"
)

func TestSyntheticSourceLoops(t *testing.T) {
	f1 := &MemFrame{Format: fourcc.YUYV, W: 2, H: 1, Plane: []byte{1, 2, 3, 4}}
	f2 := &MemFrame{Format: fourcc.YUYV, W: 2, H: 1, Plane: []byte{5, 6, 7, 8}}
	src := NewSyntheticSource([]*MemFrame{f1, f2})

	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer src.Stop()

	seq := []*MemFrame{}
	for i := 0; i < 5; i++ {
		got, err := src.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		seq = append(seq, got.(*MemFrame))
	}

	want := []*MemFrame{f1, f2, f1, f2, f1}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("frame %d = %v, want %v", i, seq[i], want[i])
		}
	}
}

func TestSyntheticSourceNextFrameBeforeStart(t *testing.T) {
	src := NewSyntheticSource([]*MemFrame{{Format: fourcc.YUYV, W: 2, H: 1, Plane: []byte{1, 2, 3, 4}}})
	if _, err := src.NextFrame(); err == nil {
		t.Fatal("expected error before Start")
	}
}

func TestSyntheticSourceNextFrameAfterStop(t *testing.T) {
	src := NewSyntheticSource([]*MemFrame{{Format: fourcc.YUYV, W: 2, H: 1, Plane: []byte{1, 2, 3, 4}}})
	_ = src.Start(context.Background())
	_ = src.Stop()
	if _, err := src.NextFrame(); err == nil {
		t.Fatal("expected error after Stop")
	}
}
