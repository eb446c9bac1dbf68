package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/fourcc"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/motion"
)

func grayFrame(fill byte) *frame.MemFrame {
	plane := make([]byte, 4*4)
	for i := range plane {
		plane[i] = fill
	}
	return &frame.MemFrame{Format: fourcc.YUYV, W: 2, H: 4, Plane: plane}
}

func TestCapturerOnMotionDetectedNoPriorCaptures(t *testing.T) {
	src := frame.NewSyntheticSource([]*frame.MemFrame{grayFrame(10), grayFrame(20), grayFrame(30)})
	src.Start(context.Background())

	ch := make(chan events.ImageProcessingEvent, 10)
	c := NewCapturer(src, 3, 0)
	c.Connect(ch)

	eventID := uuid.New()
	result := events.MotionDetectionEvent{EventID: eventID, MotionScore: motion.Score{Score: 1, Detected: true}}

	if err := c.OnMotionDetected(result); err != nil {
		t.Fatalf("OnMotionDetected: %v", err)
	}
	close(ch)

	var indices []int
	for ev := range ch {
		if ev.CaptureEvent.EventID != eventID {
			t.Fatalf("unexpected event_id %v", ev.CaptureEvent.EventID)
		}
		indices = append(indices, ev.CaptureEvent.CaptureIndex)
	}
	if len(indices) != 3 {
		t.Fatalf("len(indices) = %d, want 3", len(indices))
	}
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("indices = %v, want [0 1 2]", indices)
		}
	}
}

func TestCapturerOnMotionDetectedWithPriorCaptures(t *testing.T) {
	src := frame.NewSyntheticSource([]*frame.MemFrame{grayFrame(10), grayFrame(20), grayFrame(30)})
	src.Start(context.Background())

	ch := make(chan events.ImageProcessingEvent, 10)
	c := NewCapturer(src, 5, 0)
	c.Connect(ch)

	eventID := uuid.New()
	img, err := frame.ToImage(grayFrame(10))
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	prior := []events.CaptureEvent{
		{EventID: eventID, CaptureIndex: 0, CaptureTimestamp: time.Now(), Image: img},
		{EventID: eventID, CaptureIndex: 1, CaptureTimestamp: time.Now(), Image: img},
	}
	result := events.MotionDetectionEvent{EventID: eventID, CaptureEvents: prior}

	if err := c.OnMotionDetected(result); err != nil {
		t.Fatalf("OnMotionDetected: %v", err)
	}
	close(ch)

	var indices []int
	for ev := range ch {
		indices = append(indices, ev.CaptureEvent.CaptureIndex)
	}
	if len(indices) != 5 {
		t.Fatalf("len(indices) = %d, want 5 (2 prior + 3 fresh)", len(indices))
	}
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("indices = %v, want [0 1 2 3 4]", indices)
		}
	}
}
