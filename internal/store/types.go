// Package store persists image metadata (the index store) and image bytes
// (the blob store) produced by the capture pipeline.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/motion"
)

// ImageInfo is the indexed record for one stored capture.
type ImageInfo struct {
	ImageID          uuid.UUID
	EventID          uuid.UUID
	EventTimestamp   time.Time
	MotionScore      motion.Score
	Detections       []detect.Detection
	CaptureIndex     int
	CaptureTimestamp time.Time
	ImagePath        string
}

// SearchOptions filters a search over the index store. Zero-valued pointer
// fields are unconstrained; an empty DetectionClasses slice matches
// everything.
type SearchOptions struct {
	EventID          *uuid.UUID
	Since            *time.Time
	Until            *time.Time
	MinMotionScore   *float64
	DetectionClasses []string
	Limit            int
}
