package frame

// Slot pairs a Frame with its derived YPlane so callers can hold both
// together without recomputing the plane. The original Rust code needed a
// self-referential struct (self_cell) to tie a borrowed YPlane's lifetime to
// its owning Frame; Go's GC makes that unnecessary, since YPlane.Data is
// just a slice that keeps its backing array alive on its own.
type Slot struct {
	frame  Frame
	yplane *YPlane
}

// NewSlot derives a YPlane from f and bundles the two together.
func NewSlot(f Frame) (*Slot, error) {
	yp, err := FromFrame(f)
	if err != nil {
		return nil, err
	}
	return &Slot{frame: f, yplane: yp}, nil
}

func (s *Slot) Frame() Frame    { return s.frame }
func (s *Slot) YPlane() *YPlane { return s.yplane }
