// Package frame defines the raw-camera-frame abstraction, its derived
// Y-plane (luma) view, and the FrameSource contract that produces frames.
package frame

import (
	"context"

	"github.com/castle8080/lifewatch/internal/fourcc"
)

// Frame is one raw camera image: a pixel format, dimensions, and one or more
// planes of raw bytes. Implementations must not be mutated after creation;
// a Frame must not be retained past the lifetime of the FrameSource that
// produced it.
type Frame interface {
	PixelFormat() fourcc.Code
	Width() int
	Height() int
	PlaneCount() int
	PlaneData(plane int) ([]byte, error)
}

// Source produces a sequence of frames from a camera (or a stand-in for
// one). NextFrame may block until a buffer is ready; after Stop, NextFrame
// fails with lwerror.KindCamera.
type Source interface {
	ListSources() ([]string, error)
	SetSource(name string, requiredBufferCount uint32) error
	CameraDetail() (string, error)

	Start(ctx context.Context) error
	Stop() error

	// NextFrame returns the next available frame. The returned Frame is only
	// valid until the Source is stopped.
	NextFrame() (Frame, error)

	PixelFormat() fourcc.Code
	Width() int
	Height() int
}
