package pipeline

import (
	"log/slog"

	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/metrics"
	"github.com/castle8080/lifewatch/internal/prodcon"
)

// Detector (C7) runs object detection against every captured image. A
// detection failure is non-fatal: it is logged and the stage moves on to
// the next event. An event is only forwarded downstream when detection
// found at least one object; empty results are dropped here, matching the
// source's "only send event if there are detections" policy.
type Detector struct {
	ObjectDetector detect.Detector
	Callbacks      *prodcon.Callbacks[events.ImageProcessingEvent]
	Logger         *slog.Logger
	Metrics        *metrics.Registry
}

// NewDetector builds a Detector stage over the given object detector.
func NewDetector(objectDetector detect.Detector) *Detector {
	return &Detector{
		ObjectDetector: objectDetector,
		Callbacks:      prodcon.New[events.ImageProcessingEvent](),
	}
}

// Connect attaches ch to receive every ImageProcessingEvent with a
// non-empty detection result.
func (d *Detector) Connect(ch chan<- events.ImageProcessingEvent) {
	d.Callbacks.Connect(ch)
}

// Consume processes one incoming ImageProcessingEvent. It never returns an
// error for a detection failure - only for a downstream forwarding error -
// so the caller's listener loop keeps running across bad frames.
func (d *Detector) Consume(event events.ImageProcessingEvent) error {
	ce := event.CaptureEvent
	logger := d.logger()

	logger.Info("processing image for object detection", "event_id", ce.EventID, "capture_index", ce.CaptureIndex)

	result, err := d.ObjectDetector.Detect(ce.Image)
	if err != nil {
		if d.Metrics != nil {
			d.Metrics.DetectorErrors.Inc()
		}
		logger.Error("object detection failed", "event_id", ce.EventID, "capture_index", ce.CaptureIndex, "error", err)
		return nil
	}

	logger.Info("detections found", "event_id", ce.EventID, "detection_count", len(result.Detections))

	if len(result.Detections) == 0 {
		return nil
	}

	return d.Callbacks.Produce(events.ImageProcessingEvent{
		CaptureEvent: ce,
		Detections:   &result,
	})
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
