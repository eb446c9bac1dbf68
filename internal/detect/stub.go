package detect

import "image"

// Stub is a Detector stand-in for tests and for environments without a
// real model configured. It returns a fixed Result (or a fixed error) for
// every image, regardless of content.
type Stub struct {
	Result Result
	Err    error
}

func (s Stub) Detect(img image.Image) (Result, error) {
	if s.Err != nil {
		return Result{}, s.Err
	}
	return s.Result, nil
}
