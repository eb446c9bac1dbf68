package frame

import (
	"testing"

	"github.com/castle8080/lifewatch/internal/fourcc"
)

func TestYPlaneFromYUYV(t *testing.T) {
	width, height := 4, 2
	plane := make([]byte, width*2*height)
	for i := range plane {
		plane[i] = byte(i)
	}
	f := &MemFrame{Format: fourcc.YUYV, W: width, H: height, Plane: plane}

	yp, err := FromFrame(f)
	if err != nil {
		t.Fatalf("FromFrame: %v", err)
	}
	if yp.Width != width || yp.Height != height {
		t.Fatalf("dims = %dx%d, want %dx%d", yp.Width, yp.Height, width, height)
	}
	if yp.Stride != width*2 || yp.PixelStep != 2 {
		t.Fatalf("stride/pixel_step = %d/%d, want %d/2", yp.Stride, yp.PixelStep, width*2)
	}

	got, err := yp.At(1, 0)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := plane[0*yp.Stride+1*2]
	if got != want {
		t.Fatalf("At(1,0) = %d, want %d", got, want)
	}
}

func TestYPlaneAtOutOfBounds(t *testing.T) {
	yp := &YPlane{Data: make([]byte, 8), Width: 2, Height: 2, Stride: 4, PixelStep: 2}
	if _, err := yp.At(-1, 0); err == nil {
		t.Fatal("expected error for negative x")
	}
	if _, err := yp.At(2, 0); err == nil {
		t.Fatal("expected error for x == width")
	}
	if _, err := yp.At(0, 2); err == nil {
		t.Fatal("expected error for y == height")
	}
}

func TestYPlaneUnsupportedFormat(t *testing.T) {
	f := &MemFrame{Format: fourcc.NV12, W: 2, H: 2, Plane: make([]byte, 4)}
	if _, err := FromFrame(f); err == nil {
		t.Fatal("expected error for unsupported pixel format")
	}
}

func TestYPlaneShortBuffer(t *testing.T) {
	f := &MemFrame{Format: fourcc.YUYV, W: 4, H: 2, Plane: make([]byte, 4)}
	if _, err := FromFrame(f); err == nil {
		t.Fatal("expected error for undersized plane")
	}
}
