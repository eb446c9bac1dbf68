package pipeline

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/metrics"
	"github.com/castle8080/lifewatch/internal/prodcon"
	"github.com/castle8080/lifewatch/internal/store"
)

// DefaultStoreJPEGQuality matches the quality the storer re-encodes every
// capture at, regardless of the source pixel format.
const DefaultStoreJPEGQuality = 85

// ThumbnailMaxWidth bounds the width of the preview thumbnail stored
// alongside every capture.
const ThumbnailMaxWidth = 320

// Storer (C8) re-encodes each capture's decoded image as JPEG, writes it
// (and a sibling detections sidecar, if any) to the blob store, indexes its
// metadata, and reports a StorageEvent. A single storage or index failure
// is non-fatal: it is logged and the stage continues with the next event.
type Storer struct {
	Blob      store.BlobRepository
	Index     store.InfoRepository
	Callbacks *prodcon.Callbacks[events.StorageEvent]
	Logger    *slog.Logger
	Metrics   *metrics.Registry
}

// NewStorer builds a Storer writing to the given blob and index stores.
func NewStorer(blob store.BlobRepository, index store.InfoRepository) *Storer {
	return &Storer{
		Blob:      blob,
		Index:     index,
		Callbacks: prodcon.New[events.StorageEvent](),
	}
}

// Connect attaches ch to receive a StorageEvent for every successfully
// stored capture.
func (s *Storer) Connect(ch chan<- events.StorageEvent) {
	s.Callbacks.Connect(ch)
}

// Consume stores one ImageProcessingEvent. It always returns nil: storage
// failures are logged, not propagated, matching the source's non-fatal
// storage policy.
func (s *Storer) Consume(event events.ImageProcessingEvent) error {
	if err := s.processCaptureEvent(event); err != nil {
		if s.Metrics != nil {
			s.Metrics.StoreErrors.Inc()
		}
		s.logger().Error("failed to store capture", "event_id", event.CaptureEvent.EventID, "capture_index", event.CaptureEvent.CaptureIndex, "error", err)
	}
	return nil
}

func (s *Storer) processCaptureEvent(event events.ImageProcessingEvent) error {
	ce := event.CaptureEvent
	logger := s.logger()

	logger.Info("processing capture event", "event_id", ce.EventID, "capture_index", ce.CaptureIndex, "motion_score", ce.MotionScore.Score)

	jpegData, err := frame.EncodeJPEG(ce.Image, DefaultStoreJPEGQuality)
	if err != nil {
		return err
	}

	imagePath := store.ImagePath(ce.CaptureTimestamp, ce.EventID, ce.CaptureIndex, ce.MotionScore.Score)
	if err := s.Blob.Store(imagePath, jpegData); err != nil {
		return err
	}

	thumbJPEG, err := frame.EncodeJPEG(frame.Thumbnail(ce.Image, ThumbnailMaxWidth), DefaultStoreJPEGQuality)
	if err != nil {
		return err
	}
	if err := s.Blob.Store(store.ThumbnailSidecarPath(imagePath), thumbJPEG); err != nil {
		return err
	}

	if event.Detections != nil {
		detectionsJSON, err := json.MarshalIndent(event.Detections.Detections, "", "  ")
		if err != nil {
			return err
		}
		if err := s.Blob.Store(store.DetectionsSidecarPath(imagePath), detectionsJSON); err != nil {
			return err
		}
	}

	imageID := uuid.New()
	info := store.ImageInfo{
		ImageID:          imageID,
		EventID:          ce.EventID,
		EventTimestamp:   ce.EventTimestamp,
		MotionScore:      ce.MotionScore,
		CaptureIndex:     ce.CaptureIndex,
		CaptureTimestamp: ce.CaptureTimestamp,
		ImagePath:        imagePath,
	}
	if event.Detections != nil {
		info.Detections = event.Detections.Detections
	}

	if err := s.Index.SaveImageInfo(info); err != nil {
		return err
	}

	if s.Metrics != nil {
		s.Metrics.CapturesTotal.Inc()
	}

	return s.Callbacks.Produce(events.StorageEvent{CaptureEvent: ce, ImagePath: imagePath})
}

func (s *Storer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
