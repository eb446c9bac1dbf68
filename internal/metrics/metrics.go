// Package metrics exposes the daemon's Prometheus instrumentation: frames
// observed, motion incidents, and per-stage failure counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric the pipeline updates, so callers construct
// one and pass it down instead of reaching for package-level globals.
type Registry struct {
	reg *prometheus.Registry

	FramesWatched   prometheus.Counter
	IncidentsTotal  prometheus.Counter
	CapturesTotal   prometheus.Counter
	DetectorErrors  prometheus.Counter
	StoreErrors     prometheus.Counter
	PipelineDepth   *prometheus.GaugeVec
}

// NewRegistry builds a fresh Registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		FramesWatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lifewatch",
			Name:      "frames_watched_total",
			Help:      "Frames pulled from the camera source and compared for motion.",
		}),
		IncidentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lifewatch",
			Name:      "motion_incidents_total",
			Help:      "Motion incidents that triggered a capture burst.",
		}),
		CapturesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lifewatch",
			Name:      "captures_total",
			Help:      "Individual still images captured across all incidents.",
		}),
		DetectorErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lifewatch",
			Name:      "detector_errors_total",
			Help:      "Object detection failures, non-fatal to the pipeline.",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lifewatch",
			Name:      "store_errors_total",
			Help:      "Index or blob store write failures.",
		}),
		PipelineDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lifewatch",
			Name:      "pipeline_channel_depth",
			Help:      "Current number of items queued on an inter-stage channel.",
		}, []string{"stage"}),
	}
}

// Handler returns an http.Handler exposing the registry in the Prometheus
// text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
