package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/lwerror"
	"github.com/castle8080/lifewatch/internal/metrics"
	"github.com/castle8080/lifewatch/internal/motion"
)

// ImageDiffWatcher (C5, image-diff variant) watches a shared FrameSource,
// comparing successive Y-planes with a motion.Detector. When motion is
// detected it hands a MotionDetectionEvent (carrying the two frames that
// straddled the trigger) off to a Capturer to complete the burst.
type ImageDiffWatcher struct {
	Source               frame.Source
	MotionDetectInterval time.Duration
	MotionWatchCount     int
	Detector             motion.Detector
	Capturer             *Capturer
	RoundInterval        time.Duration
	Logger               *slog.Logger
	Metrics              *metrics.Registry
}

// Connect attaches ch to receive every ImageProcessingEvent produced
// downstream of a detected incident.
func (w *ImageDiffWatcher) Connect(ch chan<- events.ImageProcessingEvent) {
	w.Capturer.Connect(ch)
}

// Start runs the watcher in its own goroutine, returning a channel that
// receives the watcher's terminal error (nil on clean shutdown via ctx).
func (w *ImageDiffWatcher) Start(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		defer func() {
			if r := recover(); r != nil {
				result <- lwerror.New(lwerror.KindConcurrency, "ImageDiffWatcher.Start", "watcher panicked: %v", r)
			}
		}()
		result <- w.run(ctx)
	}()
	return result
}

func (w *ImageDiffWatcher) run(ctx context.Context) error {
	w.logger().Info("starting motion watcher")
	if err := w.Source.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger().Info("motion watcher stopping")
			return nil
		default:
		}

		if err := w.runRound(); err != nil {
			w.logger().Info("motion watcher exiting with error", "error", err)
			return err
		}
		time.Sleep(w.RoundInterval)
	}
}

func (w *ImageDiffWatcher) runRound() error {
	result, err := w.detectMotion()
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return w.Capturer.OnMotionDetected(*result)
}

// detectMotion keeps a two-slot ring of (frame, derived YPlane) pairs and
// compares each new frame against the previous one. capture_index 0 keeps
// the timestamp of the frame taken *before* the trigger and capture_index 1
// keeps the timestamp of the triggering frame itself - neither is
// resampled with a fresh now() call.
func (w *ImageDiffWatcher) detectMotion() (*events.MotionDetectionEvent, error) {
	lastFrame, err := w.Source.NextFrame()
	if err != nil {
		return nil, err
	}
	lastSlot, err := frame.NewSlot(lastFrame)
	if err != nil {
		return nil, err
	}
	lastTimestamp := time.Now()

	for i := 0; i < w.MotionWatchCount; i++ {
		time.Sleep(w.MotionDetectInterval)

		curFrame, err := w.Source.NextFrame()
		if err != nil {
			return nil, err
		}
		if w.Metrics != nil {
			w.Metrics.FramesWatched.Inc()
		}
		curSlot, err := frame.NewSlot(curFrame)
		if err != nil {
			return nil, err
		}
		curTimestamp := time.Now()

		score, err := w.Detector.DetectMotion(lastSlot.YPlane(), curSlot.YPlane())
		if err != nil {
			return nil, err
		}

		if score.Detected {
			if w.Metrics != nil {
				w.Metrics.IncidentsTotal.Inc()
			}
			eventID := uuid.New()
			w.logger().Info("motion detected", "event_id", eventID, "motion_score", score.Score)

			lastImage, err := frame.ToImage(lastSlot.Frame())
			if err != nil {
				return nil, err
			}
			curImage, err := frame.ToImage(curSlot.Frame())
			if err != nil {
				return nil, err
			}

			return &events.MotionDetectionEvent{
				EventID:        eventID,
				EventTimestamp: curTimestamp,
				MotionScore:    score,
				CaptureEvents: []events.CaptureEvent{
					{
						EventID:          eventID,
						EventTimestamp:   lastTimestamp,
						MotionScore:      score,
						CaptureIndex:     0,
						CaptureTimestamp: lastTimestamp,
						Image:            lastImage,
					},
					{
						EventID:          eventID,
						EventTimestamp:   curTimestamp,
						MotionScore:      score,
						CaptureIndex:     1,
						CaptureTimestamp: curTimestamp,
						Image:            curImage,
					},
				},
			}, nil
		}

		lastSlot = curSlot
		lastTimestamp = curTimestamp
	}

	return nil, nil
}

func (w *ImageDiffWatcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
