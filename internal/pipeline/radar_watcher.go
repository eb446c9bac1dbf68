package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/lwerror"
	"github.com/castle8080/lifewatch/internal/metrics"
	"github.com/castle8080/lifewatch/internal/motion"
)

// RadarLine is a blocking edge-triggered GPIO line, abstracted so the core
// never depends on a concrete GPIO chip driver.
type RadarLine interface {
	WaitForEdge(ctx context.Context) error
}

// RadarWatcher (C5, radar variant) replaces the Y-plane diff with a
// blocking wait on a GPIO line. Each edge synthesizes a fresh event_id and
// a fixed score of 1.0, then hands an empty capture list to the shared
// Capturer so it captures the full burst fresh.
type RadarWatcher struct {
	Line     RadarLine
	Capturer *Capturer
	Logger   *slog.Logger
	Metrics  *metrics.Registry
}

func (w *RadarWatcher) Connect(ch chan<- events.ImageProcessingEvent) {
	w.Capturer.Connect(ch)
}

func (w *RadarWatcher) Start(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		defer func() {
			if r := recover(); r != nil {
				result <- lwerror.New(lwerror.KindConcurrency, "RadarWatcher.Start", "watcher panicked: %v", r)
			}
		}()
		result <- w.run(ctx)
	}()
	return result
}

func (w *RadarWatcher) run(ctx context.Context) error {
	w.logger().Info("starting radar motion watcher")
	for {
		if err := w.Line.WaitForEdge(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if w.Metrics != nil {
			w.Metrics.IncidentsTotal.Inc()
		}
		eventID := uuid.New()
		now := time.Now()
		w.logger().Info("radar edge detected", "event_id", eventID)

		result := events.MotionDetectionEvent{
			EventID:        eventID,
			EventTimestamp: now,
			MotionScore:    motion.Score{Score: 1.0, Detected: true, Properties: map[string]string{}},
			CaptureEvents:  nil,
		}
		if err := w.Capturer.OnMotionDetected(result); err != nil {
			return err
		}
	}
}

func (w *RadarWatcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
