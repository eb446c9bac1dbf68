package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFileBlobRepositoryStoreAndRead(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileBlobRepository(dir)
	if err != nil {
		t.Fatalf("NewFileBlobRepository: %v", err)
	}

	name := filepath.Join("2026-07-31", "capture.jpg")
	want := []byte("jpeg-bytes")
	if err := repo.Store(name, want); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := repo.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("Read() = %q, want %q", got, want)
	}

	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestFileBlobRepositoryReadMissing(t *testing.T) {
	repo, err := NewFileBlobRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBlobRepository: %v", err)
	}
	if _, err := repo.Read("nope.jpg"); err == nil {
		t.Fatal("expected error reading missing file")
	}
}

func TestImagePath(t *testing.T) {
	ts := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	path := ImagePath(ts, id, 3, 0.123456789)
	dir := filepath.Dir(path)
	if dir != "2026-07-31" {
		t.Fatalf("date partition = %q, want 2026-07-31", dir)
	}
	base := filepath.Base(path)
	want := "20260731_120000.000_11111111-1111-1111-1111-111111111111_3_0.123456789.jpg"
	if base != want {
		t.Fatalf("filename = %q, want %q", base, want)
	}
}

func TestDetectionsSidecarPath(t *testing.T) {
	got := DetectionsSidecarPath("2026-07-31/foo.jpg")
	want := "2026-07-31/foo.detections.json"
	if got != want {
		t.Fatalf("sidecar = %q, want %q", got, want)
	}
}

func TestThumbnailSidecarPath(t *testing.T) {
	got := ThumbnailSidecarPath("2026-07-31/foo.jpg")
	want := "2026-07-31/foo.thumb.jpg"
	if got != want {
		t.Fatalf("sidecar = %q, want %q", got, want)
	}
}
