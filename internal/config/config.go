// Package config loads and defaults the daemon's typed configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/castle8080/lifewatch/internal/lwerror"
)

// AppConfiguration is the full set of options the assembly root (C10) reads
// to build the pipeline's object graph. Default() supplies a value for
// every field, and Load overlays file settings onto those defaults; the
// zero value itself is not runnable (e.g. its box size and capture count
// are 0).
type AppConfiguration struct {
	FrameSource  string `toml:"frame_source"`
	CameraSource string `toml:"camera_source"`

	MotionWatcherType string `toml:"motion_watcher_type"` // "image_diff" | "radar"
	MotionDetectorType string `toml:"motion_detector_type"` // "yplane_motion_percentile" | "yplane_boxed_average"

	UseYPlaneRollingZ     bool    `toml:"use_yplane_rolling_z"`
	YPlaneRollingZAlpha     float64 `toml:"yplane_rolling_z_alpha"`
	YPlaneRollingZThreshold float64 `toml:"yplane_rolling_z_threshold"`

	YPlaneMotionPercentile          float64 `toml:"yplane_motion_percentile"`
	YPlaneMotionPercentileThreshold float64 `toml:"yplane_motion_percentile_threshold"`

	YPlaneBoxedAverageMotionDetectorBoxSize       int     `toml:"yplane_boxed_average_motion_detector_box_size"`
	YPlaneBoxedAverageMotionDetectorPercentile    float64 `toml:"yplane_boxed_average_motion_detector_percentile"`
	YPlaneBoxedAverageMotionDetectorThreshold     float64 `toml:"yplane_boxed_average_motion_detector_threshold"`

	MotionWatcherCount             int `toml:"motion_watcher_count"`
	MotionWatcherRoundIntervalMs   int `toml:"motion_watcher_round_interval_ms"`
	MotionWatcherDetectIntervalMs  int `toml:"motion_watcher_detect_interval_ms"`

	ImageCapturerCaptureCount       int `toml:"image_capturer_capture_count"`
	ImageCapturerCaptureIntervalMs  int `toml:"image_capturer_capture_interval_ms"`

	RadarGPIOPin      uint32 `toml:"radar_gpio_pin"`
	RadarGPIOChipPath string `toml:"radar_gpio_chip_path"`

	ObjectDetectorType string `toml:"object_detector_type"`

	ImageDirectory string `toml:"image_directory"`
	DatabasePath   string `toml:"database_path"`

	LogLevel  string `toml:"log_level"`  // "debug" | "info" | "warn" | "error"
	LogFormat string `toml:"log_format"` // "text" | "json"

	MetricsAddr string `toml:"metrics_addr"`
}

// Default returns the configuration the daemon runs with absent any file
// or flag overrides, matching the original daemon's active production
// wiring: a boxed-average detector wrapped in rolling-Z.
func Default() AppConfiguration {
	return AppConfiguration{
		FrameSource:  "synthetic",
		CameraSource: "",

		MotionWatcherType:  "image_diff",
		MotionDetectorType: "yplane_boxed_average",

		UseYPlaneRollingZ:       true,
		YPlaneRollingZAlpha:     0.05,
		YPlaneRollingZThreshold: 2.0,

		YPlaneMotionPercentile:          0.98,
		YPlaneMotionPercentileThreshold: 0.02,

		YPlaneBoxedAverageMotionDetectorBoxSize:    50,
		YPlaneBoxedAverageMotionDetectorPercentile: 0.98,
		YPlaneBoxedAverageMotionDetectorThreshold:  0.02,

		MotionWatcherCount:            20,
		MotionWatcherRoundIntervalMs:  500,
		MotionWatcherDetectIntervalMs: 500,

		ImageCapturerCaptureCount:      5,
		ImageCapturerCaptureIntervalMs: 100,

		RadarGPIOPin:      0,
		RadarGPIOChipPath: "/dev/gpiochip0",

		ObjectDetectorType: "stub",

		ImageDirectory: "var/images",
		DatabasePath:   "var/db/image_info.db",

		LogLevel:  "info",
		LogFormat: "text",

		MetricsAddr: "",
	}
}

// Load reads a TOML file at path and overlays it onto Default(). A missing
// file is not an error: the defaults alone are enough to run.
func Load(path string) (AppConfiguration, error) {
	const op = "config.Load"
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return AppConfiguration{}, lwerror.Wrap(lwerror.KindConfig, op, err)
	}
	return cfg, nil
}
