// Package app assembles the pipeline's object graph from an
// AppConfiguration and runs it: the equivalent of the original daemon's
// App::run(), generalized to Go's goroutine+channel idiom.
package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/castle8080/lifewatch/internal/config"
	"github.com/castle8080/lifewatch/internal/detect"
	"github.com/castle8080/lifewatch/internal/events"
	"github.com/castle8080/lifewatch/internal/fourcc"
	"github.com/castle8080/lifewatch/internal/frame"
	"github.com/castle8080/lifewatch/internal/lwerror"
	"github.com/castle8080/lifewatch/internal/metrics"
	"github.com/castle8080/lifewatch/internal/motion"
	"github.com/castle8080/lifewatch/internal/pipeline"
	"github.com/castle8080/lifewatch/internal/prodcon"
	"github.com/castle8080/lifewatch/internal/store"
)

// channelCapacity bounds every inter-stage channel, matching the original
// daemon's two crossbeam_channel::bounded(64) channels.
const channelCapacity = 64

// Watcher is the common surface both motion-watcher variants (image-diff,
// radar) present to the assembly root.
type Watcher interface {
	Connect(ch chan<- events.ImageProcessingEvent)
	Start(ctx context.Context) <-chan error
}

// App holds the fully wired pipeline and its dependencies.
type App struct {
	Watcher  Watcher
	Detector *pipeline.Detector
	Storer   *pipeline.Storer
	Metrics  *metrics.Registry
	Logger   *slog.Logger

	watchToDetect chan events.ImageProcessingEvent
	detectToStore chan events.ImageProcessingEvent
	storageEvents chan events.StorageEvent
}

// Build constructs the full object graph described by cfg: the FrameSource,
// motion detector (optionally rolling-Z wrapped), motion watcher (image-diff
// or radar), object detector, and both stores, wired into a runnable App.
func Build(cfg config.AppConfiguration, logger *slog.Logger) (*App, error) {
	const op = "app.Build"
	if logger == nil {
		logger = slog.Default()
	}

	source, err := buildFrameSource(cfg)
	if err != nil {
		return nil, err
	}

	detector, err := buildMotionDetector(cfg)
	if err != nil {
		return nil, err
	}

	objectDetector, err := buildObjectDetector(cfg)
	if err != nil {
		return nil, err
	}

	// The blob directory and the SQLite index are independent resources;
	// initialize them concurrently rather than one after the other.
	var blobRepo *store.FileBlobRepository
	var infoRepo *store.SQLiteInfoRepository
	g := new(errgroup.Group)
	g.Go(func() error {
		r, err := store.NewFileBlobRepository(cfg.ImageDirectory)
		if err != nil {
			return err
		}
		blobRepo = r
		return nil
	})
	g.Go(func() error {
		r, err := store.NewSQLiteInfoRepository(cfg.DatabasePath)
		if err != nil {
			return err
		}
		infoRepo = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, lwerror.Wrap(lwerror.KindInitialization, op, err)
	}

	reg := metrics.NewRegistry()

	captureInterval := time.Duration(cfg.ImageCapturerCaptureIntervalMs) * time.Millisecond
	capturer := pipeline.NewCapturer(source, cfg.ImageCapturerCaptureCount, captureInterval)

	watcher, err := buildWatcher(cfg, source, detector, capturer, logger, reg)
	if err != nil {
		return nil, err
	}

	detectorStage := pipeline.NewDetector(objectDetector)
	detectorStage.Logger = logger
	detectorStage.Metrics = reg

	storerStage := pipeline.NewStorer(blobRepo, infoRepo)
	storerStage.Logger = logger
	storerStage.Metrics = reg

	watchToDetect := make(chan events.ImageProcessingEvent, channelCapacity)
	detectToStore := make(chan events.ImageProcessingEvent, channelCapacity)
	storageEvents := make(chan events.StorageEvent, channelCapacity)

	watcher.Connect(watchToDetect)
	detectorStage.Connect(detectToStore)
	storerStage.Connect(storageEvents)

	return &App{
		Watcher:       watcher,
		Detector:      detectorStage,
		Storer:        storerStage,
		Metrics:       reg,
		Logger:        logger,
		watchToDetect: watchToDetect,
		detectToStore: detectToStore,
		storageEvents: storageEvents,
	}, nil
}

// Run starts every stage and blocks until the watcher terminates (on ctx
// cancellation or a fatal FrameSource error), then cascades a clean shutdown
// down the pipeline: closing each stage's input lets the next RunListener
// drain and return rather than block forever on a channel nobody will ever
// close underneath it. Each stage runs in its own goroutine with its body
// wrapped in a defer/recover, since Go has no implicit panic containment
// across goroutines the way the original's JoinHandle::join caught a Rust
// panic.
func (a *App) Run(ctx context.Context) error {
	watcherErr := a.Watcher.Start(ctx)
	detectorErr := prodcon.StartListener[events.ImageProcessingEvent](a.watchToDetect, a.Detector.Consume)
	storerErr := prodcon.StartListener[events.ImageProcessingEvent](a.detectToStore, a.Storer.Consume)
	drainErr := a.runStorageEventDrain()
	go a.sampleDepthGauge(ctx)

	err := <-watcherErr
	close(a.watchToDetect)

	if derr := <-detectorErr; err == nil {
		err = derr
	}
	close(a.detectToStore)

	if serr := <-storerErr; err == nil {
		err = serr
	}
	close(a.storageEvents)

	<-drainErr
	return err
}

// sampleDepthGauge periodically records how full each inter-stage channel
// is, until ctx is cancelled.
func (a *App) sampleDepthGauge(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Metrics.PipelineDepth.WithLabelValues("watch_to_detect").Set(float64(len(a.watchToDetect)))
			a.Metrics.PipelineDepth.WithLabelValues("detect_to_store").Set(float64(len(a.detectToStore)))
		}
	}
}

// runStorageEventDrain keeps storageEvents flowing so the storer never
// blocks on a send nobody receives; the storer already counts each stored
// capture in its own metrics, so the assembly root just discards the events.
func (a *App) runStorageEventDrain() <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		for range a.storageEvents {
		}
	}()
	return result
}

func buildFrameSource(cfg config.AppConfiguration) (frame.Source, error) {
	const op = "app.buildFrameSource"
	switch cfg.FrameSource {
	case "", "synthetic":
		return frame.NewSyntheticSource(defaultSyntheticFrames()), nil
	default:
		return nil, lwerror.New(lwerror.KindConfig, op, "unsupported frame_source %q", cfg.FrameSource)
	}
}

// defaultSyntheticFrames gives the synthetic FrameSource something to
// replay out of the box: no real V4L2 driver was available to ground a
// hardware-backed Source against, so the daemon ships runnable against a
// single plain YUYV frame replayed in a loop instead. The frame is large
// enough for the default boxed-average grid (box_size 50 on each axis).
func defaultSyntheticFrames() []*frame.MemFrame {
	const w, h = 320, 240
	plane := make([]byte, w*h*2)
	for i := range plane {
		plane[i] = 16
	}
	return []*frame.MemFrame{{Format: fourcc.YUYV, W: w, H: h, Plane: plane}}
}

func buildMotionDetector(cfg config.AppConfiguration) (motion.Detector, error) {
	const op = "app.buildMotionDetector"

	var inner motion.Detector
	switch cfg.MotionDetectorType {
	case "", "yplane_boxed_average":
		inner = motion.BoxedAverage{
			BoxSize:    cfg.YPlaneBoxedAverageMotionDetectorBoxSize,
			Percentile: cfg.YPlaneBoxedAverageMotionDetectorPercentile,
			Threshold:  cfg.YPlaneBoxedAverageMotionDetectorThreshold,
		}
	case "yplane_motion_percentile":
		inner = motion.Percentile{
			Percentile: cfg.YPlaneMotionPercentile,
			Threshold:  cfg.YPlaneMotionPercentileThreshold,
			SampleStep: 1,
		}
	default:
		return nil, lwerror.New(lwerror.KindConfig, op, "unsupported motion_detector_type %q", cfg.MotionDetectorType)
	}

	if !cfg.UseYPlaneRollingZ {
		return inner, nil
	}
	return motion.NewRollingZDetector(inner, cfg.YPlaneRollingZAlpha, cfg.YPlaneRollingZThreshold), nil
}

func buildObjectDetector(cfg config.AppConfiguration) (detect.Detector, error) {
	const op = "app.buildObjectDetector"
	switch cfg.ObjectDetectorType {
	case "", "stub":
		return detect.Stub{}, nil
	default:
		return nil, lwerror.New(lwerror.KindConfig, op, "unsupported object_detector_type %q", cfg.ObjectDetectorType)
	}
}

func buildWatcher(cfg config.AppConfiguration, source frame.Source, detector motion.Detector, capturer *pipeline.Capturer, logger *slog.Logger, reg *metrics.Registry) (Watcher, error) {
	const op = "app.buildWatcher"
	switch cfg.MotionWatcherType {
	case "", "image_diff":
		return &pipeline.ImageDiffWatcher{
			Source:               source,
			MotionDetectInterval: time.Duration(cfg.MotionWatcherDetectIntervalMs) * time.Millisecond,
			MotionWatchCount:     cfg.MotionWatcherCount,
			Detector:             detector,
			Capturer:             capturer,
			RoundInterval:        time.Duration(cfg.MotionWatcherRoundIntervalMs) * time.Millisecond,
			Logger:               logger,
			Metrics:              reg,
		}, nil
	case "radar":
		return &pipeline.RadarWatcher{
			Line:     pipeline.NewSyntheticRadarLine(),
			Capturer: capturer,
			Logger:   logger,
			Metrics:  reg,
		}, nil
	default:
		return nil, lwerror.New(lwerror.KindConfig, op, "unsupported motion_watcher_type %q", cfg.MotionWatcherType)
	}
}
