// Package config defines loggraph configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BatchingSeconds is the default grouping window for timelines.
	BatchingSeconds int64 `koanf:"batching_seconds"`

	// OutputDir receives graph, highlight and summary files in batch mode.
	OutputDir string `koanf:"output_dir"`

	// CanvasWidth and CanvasHeight size the rendered image.
	CanvasWidth  int `koanf:"canvas_width"`
	CanvasHeight int `koanf:"canvas_height"`

	// KeySpace is the legend strip at the bottom of the canvas.
	KeySpace int `koanf:"key_space"`

	// LinePadding is the horizontal margin on each side of the timeline.
	LinePadding int `koanf:"line_padding"`

	// PreRollSeconds moves the timeline start before the first event.
	PreRollSeconds int64 `koanf:"pre_roll_seconds"`

	// NoteworthyThreshold is the strict group score above which a moment is reported.
	NoteworthyThreshold float64 `koanf:"noteworthy_threshold"`

	// TickRate converts seconds to demo ticks.
	TickRate float64 `koanf:"tick_rate"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the batch job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the idempotency set for batch ids and uploads.
	DedupeSize int `koanf:"dedupe_size"`

	// DownloadBaseURL is where zipped logs are fetched from by id.
	DownloadBaseURL string `koanf:"download_base_url"`

	// DownloadTimeoutMS bounds a single log download.
	DownloadTimeoutMS int `koanf:"download_timeout_ms"`

	// Addr configures the HTTP listen address for serve mode.
	Addr string `koanf:"addr"`

	// DBPath points at a SQLite results database. Empty keeps results in memory.
	DBPath string `koanf:"db_path"`

	// OTelEndpoint enables OTLP/HTTP tracing when set.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// ScoreValues overrides entries of the scoring value table.
	ScoreValues map[string]float64 `koanf:"score_values"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		BatchingSeconds:     10,
		OutputDir:           "out",
		CanvasWidth:         1280,
		CanvasHeight:        720,
		KeySpace:            70,
		LinePadding:         10,
		PreRollSeconds:      5,
		NoteworthyThreshold: 250,
		TickRate:            66.66666,
		WorkerCount:         runtime.NumCPU(),
		QueueSize:           1024,
		DedupeSize:          10_000,
		DownloadBaseURL:     "https://logs.tf/logs",
		DownloadTimeoutMS:   30_000,
		Addr:                ":9080",
	}
}

// DrawableHeight is the canvas height left for the timeline after the legend.
func (c *Config) DrawableHeight() int {
	return c.CanvasHeight - c.KeySpace
}

// DownloadTimeout returns DownloadTimeoutMS as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.DownloadTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.BatchingSeconds <= 0:
		return fmt.Errorf("%w: batching_seconds must be positive, got %d", ErrInvalidConfig, c.BatchingSeconds)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas dimensions must be positive, got %dx%d", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	case c.KeySpace < 0 || c.KeySpace >= c.CanvasHeight:
		return fmt.Errorf("%w: key_space must be in [0, canvas_height), got %d", ErrInvalidConfig, c.KeySpace)
	case c.LinePadding < 0 || 2*c.LinePadding >= c.CanvasWidth:
		return fmt.Errorf("%w: line_padding leaves no room on a %d wide canvas", ErrInvalidConfig, c.CanvasWidth)
	case c.PreRollSeconds < 0:
		return fmt.Errorf("%w: pre_roll_seconds must not be negative", ErrInvalidConfig)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	return nil
}
