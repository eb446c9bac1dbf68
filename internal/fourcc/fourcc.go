// Package fourcc packs and unpacks Linux/V4L2-style four-character pixel
// format codes.
package fourcc

import "encoding/binary"

// Code is a FourCC packed little-endian into a uint32, matching the V4L2
// convention: code = a | (b<<8) | (c<<16) | (d<<24).
type Code uint32

// Pack combines four ASCII bytes into a Code.
func Pack(a, b, c, d byte) Code {
	return Code(binary.LittleEndian.Uint32([]byte{a, b, c, d}))
}

// Recognized pixel formats.
var (
	MJPG = Pack('M', 'J', 'P', 'G')
	YUYV = Pack('Y', 'U', 'Y', 'V')
	NV12 = Pack('N', 'V', '1', '2')
	YU12 = Pack('Y', 'U', '1', '2') // I420 planar
	RGB3 = Pack('R', 'G', 'B', '3') // RGB24
	BGR3 = Pack('B', 'G', 'R', '3') // BGR24
)

// String renders a Code as its 4-character form, replacing non-printable
// bytes with '?' so the result is always exactly 4 characters long.
func (c Code) String() string {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(c))
	out := make([]byte, 4)
	for i, b := range buf {
		if (b >= 0x20 && b < 0x7f) || b == ' ' {
			out[i] = b
		} else {
			out[i] = '?'
		}
	}
	return string(out)
}
