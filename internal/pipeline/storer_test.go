package pipeline

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/motion"
	"github.com/castle8080/lifewatch/internal/store"
)

func newTestStorer(t *testing.T) (*Storer, *store.FileBlobRepository, *store.SQLiteInfoRepository) {
	t.Helper()
	blob, err := store.NewFileBlobRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBlobRepository: %v", err)
	}
	index, err := store.NewSQLiteInfoRepository(filepath.Join(t.TempDir(), "image_info.db"))
	if err != nil {
		t.Fatalf("NewSQLiteInfoRepository: %v", err)
	}
	t.Cleanup(func() { index.Close() })
	return NewStorer(blob, index), blob, index
}

func TestStorerWritesBlobAndIndex(t *testing.T) {
	storer, blob, index := newTestStorer(t)

	ch := make(chan events.StorageEvent, 1)
	storer.Connect(ch)

	eventID := uuid.New()
	ev := events.ImageProcessingEvent{
		CaptureEvent: events.CaptureEvent{
			EventID:          eventID,
			EventTimestamp:   time.Now(),
			MotionScore:      motion.Score{Score: 0.5, Detected: true},
			CaptureIndex:     0,
			CaptureTimestamp: time.Now(),
			Image:            image.NewGray(image.Rect(0, 0, 2, 2)),
		},
		Detections: &detect.Result{Detections: []detect.Detection{{ClassName: "fox"}}},
	}

	if err := storer.Consume(ev); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	select {
	case storageEvent := <-ch:
		if _, err := blob.Read(storageEvent.ImagePath); err != nil {
			t.Fatalf("stored image not readable: %v", err)
		}
		if _, err := blob.Read(store.DetectionsSidecarPath(storageEvent.ImagePath)); err != nil {
			t.Fatalf("stored detections sidecar not readable: %v", err)
		}
		if _, err := blob.Read(store.ThumbnailSidecarPath(storageEvent.ImagePath)); err != nil {
			t.Fatalf("stored thumbnail sidecar not readable: %v", err)
		}
	default:
		t.Fatal("expected a StorageEvent to be produced")
	}

	results, err := index.SearchImageInfo(store.SearchOptions{EventID: &eventID})
	if err != nil {
		t.Fatalf("SearchImageInfo: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}

func TestStorerFailureIsNonFatal(t *testing.T) {
	storer, _, _ := newTestStorer(t)
	// Index is already closed to force a write failure.
	storer.Index.(*store.SQLiteInfoRepository).Close()

	ev := events.ImageProcessingEvent{
		CaptureEvent: events.CaptureEvent{
			EventID: uuid.New(),
			Image:   image.NewGray(image.Rect(0, 0, 2, 2)),
		},
	}
	if err := storer.Consume(ev); err != nil {
		t.Fatalf("Consume should swallow storage errors, got: %v", err)
	}
}
