package config_test

import (
	"testing"

	"github.com/okian/scrum/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DBPath, convey.ShouldEqual, "")
			convey.So(cfg.HalfDurationMinutes, convey.ShouldEqual, 40)
			convey.So(cfg.SinBinSeconds, convey.ShouldEqual, 600)
			convey.So(cfg.InjuryIncrementSeconds, convey.ShouldEqual, 60)
			convey.So(cfg.SaveQueueSize, convey.ShouldEqual, 16)
			convey.So(cfg.SaveRetries, convey.ShouldEqual, 3)
			convey.So(cfg.SaveRetryDelayMS, convey.ShouldEqual, 500)
		})

		convey.Convey("Then the derived half length is in seconds", func() {
			convey.So(cfg.HalfDurationSeconds(), convey.ShouldEqual, 2400)
		})
	})
}
