// Package events defines the value types carried between pipeline stages.
package events

import (
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/motion"
)

// CaptureEvent is one captured still, grouped with the motion event that
// triggered the capture burst it belongs to.
type CaptureEvent struct {
	EventID          uuid.UUID
	EventTimestamp   time.Time
	MotionScore      motion.Score
	CaptureIndex     int
	CaptureTimestamp time.Time
	Image            image.Image
}

// ImageProcessingEvent pairs a CaptureEvent with the object detections
// found in it, if detection ran successfully.
type ImageProcessingEvent struct {
	CaptureEvent CaptureEvent
	Detections   *detect.Result
}

// MotionDetectionEvent groups every CaptureEvent produced by a single
// motion trigger (one event_id, one capture burst).
type MotionDetectionEvent struct {
	EventID        uuid.UUID
	EventTimestamp time.Time
	MotionScore    motion.Score
	CaptureEvents  []CaptureEvent
}

// StorageEvent reports where a capture was persisted to the blob store.
type StorageEvent struct {
	CaptureEvent CaptureEvent
	ImagePath    string
}
