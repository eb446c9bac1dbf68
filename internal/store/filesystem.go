package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/castle8080/lifewatch/internal/lwerror"
)

// FileBlobRepository stores image bytes at Dir/<name>, creating any
// directories name contains. Names built by ImagePath start with a
// YYYY-MM-DD directory, which gives the date-partitioned tree.
type FileBlobRepository struct {
	Dir string
}

// NewFileBlobRepository builds a FileBlobRepository rooted at dir, creating
// it if it doesn't already exist.
func NewFileBlobRepository(dir string) (*FileBlobRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, lwerror.Wrap(lwerror.KindIO, "store.NewFileBlobRepository", err)
	}
	return &FileBlobRepository{Dir: dir}, nil
}

func (r *FileBlobRepository) Store(name string, data []byte) error {
	const op = "FileBlobRepository.Store"

	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return lwerror.Wrap(lwerror.KindIO, op, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return lwerror.Wrap(lwerror.KindIO, op, err)
	}
	return nil
}

func (r *FileBlobRepository) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return nil, lwerror.Wrap(lwerror.KindIO, "FileBlobRepository.Read", err)
	}
	return data, nil
}

// ImagePath builds the deterministic, date-partitioned relative path for a
// capture:
//
//	YYYY-MM-DD/YYYYMMDD_HHMMSS.mmm_<event_id>_<capture_index>_<motion_score>.jpg
//
// captureTimestamp is used as given (the caller's local zone), matching the
// original's use of a fixed-offset local timestamp rather than normalizing
// to UTC.
func ImagePath(captureTimestamp time.Time, eventID fmt.Stringer, captureIndex int, motionScore float64) string {
	day := captureTimestamp.Format("2006-01-02")
	ts := captureTimestamp.Format("20060102_150405.000")
	name := fmt.Sprintf("%s_%s_%d_%.9f.jpg", ts, eventID.String(), captureIndex, motionScore)
	return filepath.Join(day, name)
}

// DetectionsSidecarPath returns the path of the sibling detections file for
// an image stored at imagePath.
func DetectionsSidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return imagePath[:len(imagePath)-len(ext)] + ".detections.json"
}

// ThumbnailSidecarPath returns the path of the sibling thumbnail file for an
// image stored at imagePath.
func ThumbnailSidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return imagePath[:len(imagePath)-len(ext)] + ".thumb.jpg"
}
