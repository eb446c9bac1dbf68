package frame

import (
	"bytes"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/castle8080/lifewatch/internal/fourcc"
	"github.com/castle8080/lifewatch/internal/lwerror"
)

// DefaultJPEGQuality matches the quality used when a caller doesn't ask for
// a specific one.
const DefaultJPEGQuality = 85

// ToJPEG renders a Frame as JPEG bytes at DefaultJPEGQuality.
func ToJPEG(f Frame) ([]byte, error) {
	return ToJPEGQuality(f, DefaultJPEGQuality)
}

// ToJPEGQuality renders a Frame as JPEG bytes. MJPG frames are passed
// through unchanged (the sensor already gives us a JPEG bitstream); other
// formats are decoded/converted to RGB and re-encoded.
func ToJPEGQuality(f Frame, quality int) ([]byte, error) {
	const op = "frame.ToJPEGQuality"

	if f.PixelFormat() == fourcc.MJPG {
		data, err := f.PlaneData(0)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	img, err := toRGBImage(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, lwerror.Wrap(lwerror.KindImage, op, err)
	}
	return buf.Bytes(), nil
}

// ToImage decodes a Frame into a standard image.Image: MJPG is JPEG-decoded,
// YUYV is converted to RGB. This is the representation carried across
// pipeline stages from the point a frame is captured onward.
func ToImage(f Frame) (image.Image, error) {
	const op = "frame.ToImage"

	if f.PixelFormat() == fourcc.MJPG {
		data, err := f.PlaneData(0)
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, lwerror.Wrap(lwerror.KindImage, op, err)
		}
		return img, nil
	}
	return toRGBImage(f)
}

// EncodeJPEG re-encodes a decoded image.Image as JPEG bytes at the given
// quality, unconditionally - even if the image originated from an MJPG
// frame - matching the storage stage's re-encode-on-write policy.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, lwerror.Wrap(lwerror.KindImage, "frame.EncodeJPEG", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to maxWidth, preserving aspect ratio, using a
// bilinear resampler. If img is already narrower than maxWidth it is
// returned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= maxWidth || width == 0 {
		return img
	}

	scaledHeight := height * maxWidth / width
	if scaledHeight < 1 {
		scaledHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, scaledHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func toRGBImage(f Frame) (image.Image, error) {
	const op = "frame.toRGBImage"

	if f.PixelFormat() != fourcc.YUYV {
		return nil, lwerror.New(lwerror.KindImage, op, "unsupported pixel format %s for RGB conversion", f.PixelFormat())
	}

	width, height := f.Width(), f.Height()
	if width%2 != 0 {
		return nil, lwerror.New(lwerror.KindImage, op, "YUYV conversion requires even width, got %d", width)
	}

	data, err := f.PlaneData(0)
	if err != nil {
		return nil, lwerror.Wrap(lwerror.KindImage, op, err)
	}
	stride := width * 2
	if len(data) < stride*height {
		return nil, lwerror.New(lwerror.KindImage, op, "YUYV plane too small: have %d bytes, need %d", len(data), stride*height)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x += 2 {
			y0 := row[x*2+0]
			u := row[x*2+1]
			y1 := row[x*2+2]
			v := row[x*2+3]

			r0, g0, b0 := yuvToRGB(y0, u, v)
			r1, g1, b1 := yuvToRGB(y1, u, v)

			out.Set(x, y, rgbColor{r0, g0, b0})
			out.Set(x+1, y, rgbColor{r1, g1, b1})
		}
	}
	return out, nil
}

type rgbColor struct{ r, g, b uint8 }

func (c rgbColor) RGBA() (r, g, b, a uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, 0xffff
}

// yuvToRGB applies the BT.601 integer conversion used by the original
// capture pipeline: y is limited-range (16-235) luma, u/v are chroma offset
// by 128.
func yuvToRGB(y, u, v byte) (r, g, b uint8) {
	c := int(y) - 16
	d := int(u) - 128
	e := int(v) - 128

	r32 := (298*c + 409*e + 128) >> 8
	g32 := (298*c - 100*d - 208*e + 128) >> 8
	b32 := (298*c + 516*d + 128) >> 8

	return clampByte(r32), clampByte(g32), clampByte(b32)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
