package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/motion"
)

type funcDetector struct {
	fn func(prev, cur *frame.YPlane) (motion.Score, error)
}

func (d funcDetector) DetectMotion(prev, cur *frame.YPlane) (motion.Score, error) {
	return d.fn(prev, cur)
}

func TestImageDiffWatcherEmitsOneIncident(t *testing.T) {
	frames := []*frame.MemFrame{grayFrame(10), grayFrame(10), grayFrame(200), grayFrame(10)}
	src := frame.NewSyntheticSource(frames)

	calls := 0
	detector := funcDetector{fn: func(prev, cur *frame.YPlane) (motion.Score, error) {
		calls++
		detected := calls == 2 // fire once, on the second comparison
		return motion.Score{Score: 1, Detected: detected, Properties: map[string]string{}}, nil
	}}

	capturer := NewCapturer(src, 2, 0)
	watcher := &ImageDiffWatcher{
		Source:               src,
		MotionDetectInterval: time.Millisecond,
		MotionWatchCount:     5,
		Detector:             detector,
		Capturer:             capturer,
		RoundInterval:        time.Millisecond,
	}

	ch := make(chan events.ImageProcessingEvent, 32)
	watcher.Connect(ch)

	ctx, cancel := context.WithCancel(context.Background())
	result := watcher.Start(ctx)

	deadline := time.After(2 * time.Second)
	var got []events.ImageProcessingEvent
collect:
	for {
		select {
		case ev := <-ch:
			got = append(got, ev)
			if len(got) == 2 {
				cancel()
			}
		case err := <-result:
			if err != nil {
				t.Fatalf("watcher returned error: %v", err)
			}
			break collect
		case <-deadline:
			t.Fatal("timed out waiting for incident")
		}
	}

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 captures for the single incident", len(got))
	}
	eventID := got[0].CaptureEvent.EventID
	for i, ev := range got {
		if ev.CaptureEvent.EventID != eventID {
			t.Fatalf("capture %d has different event_id", i)
		}
		if ev.CaptureEvent.CaptureIndex != i {
			t.Fatalf("capture %d has index %d, want %d", i, ev.CaptureEvent.CaptureIndex, i)
		}
	}
}
