package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/lwerror"
	"github.com/castle8080/lifewatch/internal/motion"
)

// SQLiteInfoRepository indexes ImageInfo records in a SQLite database,
// accessed through the pure-Go modernc.org/sqlite driver so the daemon
// never needs cgo.
type SQLiteInfoRepository struct {
	db *sql.DB
}

// NewSQLiteInfoRepository opens (and migrates) a SQLite database at path,
// creating its parent directory if necessary and enabling WAL mode for
// concurrent readers alongside the single writer goroutine.
func NewSQLiteInfoRepository(path string) (*SQLiteInfoRepository, error) {
	const op = "store.NewSQLiteInfoRepository"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
	}

	r := &SQLiteInfoRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteInfoRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteInfoRepository) migrate() error {
	const op = "store.migrate"

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS image_info (
			image_id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			event_timestamp TEXT NOT NULL,
			motion_score TEXT NOT NULL,
			detections TEXT NOT NULL,
			capture_index INTEGER NOT NULL,
			capture_timestamp TEXT NOT NULL,
			image_path TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_image_info_event_id ON image_info(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_image_info_event_timestamp ON image_info(event_timestamp)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return lwerror.Wrap(lwerror.KindDatabase, op, fmt.Errorf("migration %q: %w", m, err))
		}
	}
	return nil
}

func (r *SQLiteInfoRepository) SaveImageInfo(info ImageInfo) error {
	const op = "SQLiteInfoRepository.SaveImageInfo"

	motionJSON, err := json.Marshal(info.MotionScore)
	if err != nil {
		return lwerror.Wrap(lwerror.KindParse, op, err)
	}
	detectionsJSON, err := json.Marshal(info.Detections)
	if err != nil {
		return lwerror.Wrap(lwerror.KindParse, op, err)
	}

	query := `INSERT INTO image_info
		(image_id, event_id, event_timestamp, motion_score, detections, capture_index, capture_timestamp, image_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(image_id) DO UPDATE SET
			event_id = excluded.event_id,
			event_timestamp = excluded.event_timestamp,
			motion_score = excluded.motion_score,
			detections = excluded.detections,
			capture_index = excluded.capture_index,
			capture_timestamp = excluded.capture_timestamp,
			image_path = excluded.image_path`

	_, err = r.db.Exec(query,
		info.ImageID.String(),
		info.EventID.String(),
		info.EventTimestamp.Format(time.RFC3339Nano),
		string(motionJSON),
		string(detectionsJSON),
		info.CaptureIndex,
		info.CaptureTimestamp.Format(time.RFC3339Nano),
		info.ImagePath,
	)
	if err != nil {
		return lwerror.Wrap(lwerror.KindDatabase, op, err)
	}
	return nil
}

func (r *SQLiteInfoRepository) GetImageInfo(imageID uuid.UUID) (*ImageInfo, error) {
	const op = "SQLiteInfoRepository.GetImageInfo"

	query := `SELECT image_id, event_id, event_timestamp, motion_score, detections, capture_index, capture_timestamp, image_path
		FROM image_info WHERE image_id = ?`

	row := r.db.QueryRow(query, imageID.String())
	info, err := scanImageInfo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
	}
	return info, nil
}

func (r *SQLiteInfoRepository) SearchImageInfo(opts SearchOptions) ([]ImageInfo, error) {
	const op = "SQLiteInfoRepository.SearchImageInfo"

	query := `SELECT image_id, event_id, event_timestamp, motion_score, detections, capture_index, capture_timestamp, image_path
		FROM image_info WHERE 1=1`
	var args []interface{}

	if opts.EventID != nil {
		query += " AND event_id = ?"
		args = append(args, opts.EventID.String())
	}
	if opts.Since != nil {
		query += " AND capture_timestamp >= ?"
		args = append(args, opts.Since.Format(time.RFC3339Nano))
	}
	if opts.Until != nil {
		query += " AND capture_timestamp <= ?"
		args = append(args, opts.Until.Format(time.RFC3339Nano))
	}

	query += " ORDER BY capture_timestamp DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
	}
	defer rows.Close()

	var out []ImageInfo
	for rows.Next() {
		info, err := scanImageInfo(rows)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindDatabase, op, err)
		}
		if !matchesPostFilters(*info, opts) {
			continue
		}
		out = append(out, *info)
	}
	return out, rows.Err()
}

// matchesPostFilters applies the filters that aren't expressed well as SQL
// predicates over the JSON-encoded columns: minimum motion score and
// detection-class membership.
func matchesPostFilters(info ImageInfo, opts SearchOptions) bool {
	if opts.MinMotionScore != nil && info.MotionScore.Score < *opts.MinMotionScore {
		return false
	}
	if len(opts.DetectionClasses) > 0 {
		want := make(map[string]bool, len(opts.DetectionClasses))
		for _, c := range opts.DetectionClasses {
			want[c] = true
		}
		found := false
		for _, d := range info.Detections {
			if want[d.ClassName] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImageInfo(row rowScanner) (*ImageInfo, error) {
	var (
		imageIDStr, eventIDStr                       string
		eventTimestampStr, captureTimestampStr       string
		motionJSON, detectionsJSON                   string
		info                                         ImageInfo
	)

	if err := row.Scan(&imageIDStr, &eventIDStr, &eventTimestampStr, &motionJSON, &detectionsJSON,
		&info.CaptureIndex, &captureTimestampStr, &info.ImagePath); err != nil {
		return nil, err
	}

	imageID, err := uuid.Parse(imageIDStr)
	if err != nil {
		return nil, fmt.Errorf("parsing image_id: %w", err)
	}
	eventID, err := uuid.Parse(eventIDStr)
	if err != nil {
		return nil, fmt.Errorf("parsing event_id: %w", err)
	}
	eventTimestamp, err := time.Parse(time.RFC3339Nano, eventTimestampStr)
	if err != nil {
		return nil, fmt.Errorf("parsing event_timestamp: %w", err)
	}
	captureTimestamp, err := time.Parse(time.RFC3339Nano, captureTimestampStr)
	if err != nil {
		return nil, fmt.Errorf("parsing capture_timestamp: %w", err)
	}

	var score motion.Score
	if err := json.Unmarshal([]byte(motionJSON), &score); err != nil {
		return nil, fmt.Errorf("parsing motion_score: %w", err)
	}
	var detections []detect.Detection
	if err := json.Unmarshal([]byte(detectionsJSON), &detections); err != nil {
		return nil, fmt.Errorf("parsing detections: %w", err)
	}

	info.ImageID = imageID
	info.EventID = eventID
	info.EventTimestamp = eventTimestamp
	info.MotionScore = score
	info.Detections = detections
	info.CaptureTimestamp = captureTimestamp

	return &info, nil
}
