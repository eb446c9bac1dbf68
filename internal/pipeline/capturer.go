// Package pipeline wires the capture-to-storage stages: motion watching
// (image-diff or radar), burst capture, object detection, and storage.
package pipeline

import (
	"time"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/prodcon"
)

// Capturer (C6) turns one MotionDetectionEvent into a full burst of
// ImageProcessingEvents: it first forwards any capture events the motion
// watcher already gathered while detecting motion, then pulls fresh frames
// from the shared FrameSource until the configured capture count is
// reached.
type Capturer struct {
	Source          frame.Source
	Callbacks       *prodcon.Callbacks[events.ImageProcessingEvent]
	CaptureCount    int
	CaptureInterval time.Duration
}

// NewCapturer builds a Capturer over the given shared frame source.
func NewCapturer(source frame.Source, captureCount int, captureInterval time.Duration) *Capturer {
	return &Capturer{
		Source:          source,
		Callbacks:       prodcon.New[events.ImageProcessingEvent](),
		CaptureCount:    captureCount,
		CaptureInterval: captureInterval,
	}
}

// Connect attaches ch so every ImageProcessingEvent the Capturer produces
// is sent on it.
func (c *Capturer) Connect(ch chan<- events.ImageProcessingEvent) {
	c.Callbacks.Connect(ch)
}

func (c *Capturer) onImageProcessingEvent(event events.ImageProcessingEvent) error {
	return c.Callbacks.Produce(event)
}

// OnMotionDetected emits the capture events already gathered by the motion
// watcher (capture_index 0..len(result.CaptureEvents)-1), then captures
// fresh frames until CaptureCount total captures have been emitted for this
// incident.
func (c *Capturer) OnMotionDetected(result events.MotionDetectionEvent) error {
	indexOffset := len(result.CaptureEvents)

	for _, ce := range result.CaptureEvents {
		if err := c.onImageProcessingEvent(events.ImageProcessingEvent{CaptureEvent: ce}); err != nil {
			return err
		}
	}

	for captureIndex := 0; captureIndex < c.CaptureCount-indexOffset; captureIndex++ {
		f, err := c.Source.NextFrame()
		if err != nil {
			return err
		}
		img, err := frame.ToImage(f)
		if err != nil {
			return err
		}

		ce := events.CaptureEvent{
			EventID:          result.EventID,
			EventTimestamp:   result.EventTimestamp,
			MotionScore:      result.MotionScore,
			CaptureIndex:     captureIndex + indexOffset,
			CaptureTimestamp: time.Now(),
			Image:            img,
		}

		if err := c.onImageProcessingEvent(events.ImageProcessingEvent{CaptureEvent: ce}); err != nil {
			return err
		}

		time.Sleep(c.CaptureInterval)
	}

	return nil
}
