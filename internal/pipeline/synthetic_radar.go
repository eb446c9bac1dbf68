package pipeline

import "context"

// SyntheticRadarLine is a RadarLine stand-in for tests: edges are fired
// explicitly by the test via Trigger rather than by real hardware.
type SyntheticRadarLine struct {
	edges chan struct{}
}

// NewSyntheticRadarLine builds a SyntheticRadarLine ready to accept edges.
func NewSyntheticRadarLine() *SyntheticRadarLine {
	return &SyntheticRadarLine{edges: make(chan struct{}, 16)}
}

// Trigger fires one edge, to be observed by the next WaitForEdge call.
func (l *SyntheticRadarLine) Trigger() {
	l.edges <- struct{}{}
}

func (l *SyntheticRadarLine) WaitForEdge(ctx context.Context) error {
	select {
	case <-l.edges:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
