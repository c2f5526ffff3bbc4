package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/loggraph/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should carry the drawing defaults", func() {
			convey.So(cfg.BatchingSeconds, convey.ShouldEqual, 10)
			convey.So(cfg.CanvasWidth, convey.ShouldEqual, 1280)
			convey.So(cfg.CanvasHeight, convey.ShouldEqual, 720)
			convey.So(cfg.KeySpace, convey.ShouldEqual, 70)
			convey.So(cfg.DrawableHeight(), convey.ShouldEqual, 650)
			convey.So(cfg.LinePadding, convey.ShouldEqual, 10)
			convey.So(cfg.PreRollSeconds, convey.ShouldEqual, 5)
			convey.So(cfg.NoteworthyThreshold, convey.ShouldEqual, 250)
			convey.So(cfg.TickRate, convey.ShouldAlmostEqual, 66.66666, 1e-9)
		})

		convey.Convey("Then it should carry the runtime defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "out")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.DownloadBaseURL, convey.ShouldEqual, "https://logs.tf/logs")
			convey.So(cfg.DownloadTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.DBPath, convey.ShouldBeEmpty)
			convey.So(cfg.OTelEndpoint, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field", t, func() {
		cases := map[string]func(*config.Config){
			"zero batching":        func(c *config.Config) { c.BatchingSeconds = 0 },
			"zero canvas width":    func(c *config.Config) { c.CanvasWidth = 0 },
			"key space too large":  func(c *config.Config) { c.KeySpace = c.CanvasHeight },
			"padding too wide":     func(c *config.Config) { c.LinePadding = c.CanvasWidth / 2 },
			"negative pre-roll":    func(c *config.Config) { c.PreRollSeconds = -1 },
			"zero tick rate":       func(c *config.Config) { c.TickRate = 0 },
			"zero workers":         func(c *config.Config) { c.WorkerCount = 0 },
			"zero queue":           func(c *config.Config) { c.QueueSize = 0 },
			"zero dedupe capacity": func(c *config.Config) { c.DedupeSize = 0 },
			"empty addr":           func(c *config.Config) { c.Addr = "" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected as invalid", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
