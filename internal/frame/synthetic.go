package frame

import (
	"context"
	"sync"

	"github.com/castle8080/lifewatch/internal/fourcc"
	"github.com/castle8080/lifewatch/internal/lwerror"
)

// MemFrame is a simple in-memory Frame backed by a single plane, used for
// tests and by SyntheticSource.
type MemFrame struct {
	Format fourcc.Code
	W, H   int
	Plane  []byte
}

func (f *MemFrame) PixelFormat() fourcc.Code { return f.Format }
func (f *MemFrame) Width() int                { return f.W }
func (f *MemFrame) Height() int               { return f.H }
func (f *MemFrame) PlaneCount() int           { return 1 }

func (f *MemFrame) PlaneData(plane int) ([]byte, error) {
	if plane != 0 {
		return nil, lwerror.New(lwerror.KindImage, "MemFrame.PlaneData", "plane index %d out of range", plane)
	}
	return f.Plane, nil
}

// SyntheticSource is a Source stand-in that replays a fixed sequence of
// frames, looping once exhausted. It exists so the pipeline can be tested
// without a real camera.
type SyntheticSource struct {
	mu      sync.Mutex
	frames  []*MemFrame
	next    int
	started bool
	stopped bool
	format  fourcc.Code
	w, h    int
}

// NewSyntheticSource builds a SyntheticSource that will replay frames in
// order, looping once the sequence is exhausted.
func NewSyntheticSource(frames []*MemFrame) *SyntheticSource {
	var format fourcc.Code
	var w, h int
	if len(frames) > 0 {
		format, w, h = frames[0].Format, frames[0].W, frames[0].H
	}
	return &SyntheticSource{frames: frames, format: format, w: w, h: h}
}

func (s *SyntheticSource) ListSources() ([]string, error) {
	return []string{"synthetic0"}, nil
}

func (s *SyntheticSource) SetSource(name string, requiredBufferCount uint32) error {
	return nil
}

func (s *SyntheticSource) CameraDetail() (string, error) {
	return "synthetic", nil
}

func (s *SyntheticSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.stopped = false
	return nil
}

func (s *SyntheticSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *SyntheticSource) NextFrame() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "SyntheticSource.NextFrame"
	if s.stopped || !s.started {
		return nil, lwerror.New(lwerror.KindCamera, op, "source is not running")
	}
	if len(s.frames) == 0 {
		return nil, lwerror.New(lwerror.KindCamera, op, "no frames configured")
	}
	f := s.frames[s.next%len(s.frames)]
	s.next++
	return f, nil
}

func (s *SyntheticSource) PixelFormat() fourcc.Code { return s.format }
func (s *SyntheticSource) Width() int                { return s.w }
func (s *SyntheticSource) Height() int               { return s.h }
