// Package detect defines the object-detection contract applied to captured
// images and a synthetic stub implementation for tests.
package detect

import "image"

// Detection is one object found in an image, in pixel coordinates.
type Detection struct {
	ClassID    int32   `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float32 `json:"confidence"`
	X          int32   `json:"x"`
	Y          int32   `json:"y"`
	Width      int32   `json:"width"`
	Height     int32   `json:"height"`
}

// Center returns the midpoint of the detection's bounding box.
func (d Detection) Center() (x, y float64) {
	return float64(d.X) + float64(d.Width)/2, float64(d.Y) + float64(d.Height)/2
}

// Result is the full output of running a detector against one image: the
// detections found, plus an optional embedding vector for downstream
// similarity search.
type Result struct {
	Detections []Detection `json:"detections"`
	Embeddings []float32   `json:"embeddings,omitempty"`
}

// HasEmbeddings reports whether Result carries an embedding vector.
func (r Result) HasEmbeddings() bool {
	return r.Embeddings != nil
}

// Detector runs object detection against a decoded image. Implementations
// may hold model state and are not required to be safe for concurrent use
// from multiple goroutines.
type Detector interface {
	Detect(img image.Image) (Result, error)
}
