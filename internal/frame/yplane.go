package frame

import (
	"bytes"
	"image"
	_ "image/jpeg"

	"github.com/castle8080/lifewatch/internal/fourcc"
	"github.com/castle8080/lifewatch/internal/lwerror"
)

// YPlane is a grayscale (luma-only) view over a Frame, used by the motion
// detectors. For YUYV frames the view borrows the frame's own bytes with a
// pixel_step of 2 (luma samples interleave with chroma); for YU12 frames it
// borrows plane 0 with pixel_step 1; for MJPG frames the plane is a decoded,
// owned copy with pixel_step 1.
type YPlane struct {
	Data      []byte
	Width     int
	Height    int
	Stride    int
	PixelStep int
}

// FromFrame derives a YPlane from a Frame, dispatching on pixel format. Go's
// GC means there is no need to distinguish "borrowed" from "owned" bytes the
// way the original's Cow<[u8]> did: a []byte is a []byte either way.
func FromFrame(f Frame) (*YPlane, error) {
	const op = "frame.FromFrame"
	width, height := f.Width(), f.Height()

	switch f.PixelFormat() {
	case fourcc.YUYV:
		data, err := f.PlaneData(0)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		stride := width * 2
		if len(data) < stride*height {
			return nil, lwerror.New(lwerror.KindImage, op, "YUYV plane too small: have %d bytes, need %d", len(data), stride*height)
		}
		return &YPlane{Data: data, Width: width, Height: height, Stride: stride, PixelStep: 2}, nil

	case fourcc.YU12:
		data, err := f.PlaneData(0)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		if len(data) < width*height {
			return nil, lwerror.New(lwerror.KindImage, op, "YU12 plane too small: have %d bytes, need %d", len(data), width*height)
		}
		return &YPlane{Data: data, Width: width, Height: height, Stride: width, PixelStep: 1}, nil

	case fourcc.MJPG:
		raw, err := f.PlaneData(0)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		gray := toGray(img)
		return &YPlane{Data: gray.Pix, Width: gray.Rect.Dx(), Height: gray.Rect.Dy(), Stride: gray.Stride, PixelStep: 1}, nil

	default:
		return nil, lwerror.New(lwerror.KindImage, op, "unsupported pixel format %s for YPlane", f.PixelFormat())
	}
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}

// At returns the luma sample at (x, y), bounds-checked.
func (p *YPlane) At(x, y int) (byte, error) {
	const op = "YPlane.At"
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return 0, lwerror.New(lwerror.KindImage, op, "coordinate (%d,%d) out of bounds for %dx%d plane", x, y, p.Width, p.Height)
	}
	idx := y*p.Stride + x*p.PixelStep
	if idx < 0 || idx >= len(p.Data) {
		return 0, lwerror.New(lwerror.KindImage, op, "computed index %d out of bounds for %d-byte plane", idx, len(p.Data))
	}
	return p.Data[idx], nil
}
