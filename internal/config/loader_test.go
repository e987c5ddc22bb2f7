package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scrum/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.HalfDurationMinutes, convey.ShouldEqual, 40)
				convey.So(cfg.SinBinSeconds, convey.ShouldEqual, 600)
				convey.So(cfg.SaveQueueSize, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCRUM_LOG_LEVEL", "debug")
			_ = os.Setenv("SCRUM_DB_PATH", "/tmp/scrum.db")
			_ = os.Setenv("SCRUM_HALF_DURATION_MINUTES", "35")
			_ = os.Setenv("SCRUM_SIN_BIN_SECONDS", "300")
			_ = os.Setenv("SCRUM_SAVE_RETRIES", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/scrum.db")
				convey.So(cfg.HalfDurationMinutes, convey.ShouldEqual, 35)
				convey.So(cfg.SinBinSeconds, convey.ShouldEqual, 300)
				convey.So(cfg.SaveRetries, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
log_level: warn
half_duration_minutes: 30
injury_increment_seconds: 30
save_queue_size: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCRUM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.HalfDurationMinutes, convey.ShouldEqual, 30)
				convey.So(cfg.InjuryIncrementSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.SaveQueueSize, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
half_duration_minutes: 30
sin_bin_seconds: 480
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCRUM_CONFIG", tmpFile)
			_ = os.Setenv("SCRUM_HALF_DURATION_MINUTES", "25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.HalfDurationMinutes, convey.ShouldEqual, 25) // overridden by env
				convey.So(cfg.SinBinSeconds, convey.ShouldEqual, 480)     // from file
			})
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCRUM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid values", func() {
			_ = os.Setenv("SCRUM_HALF_DURATION_MINUTES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"SCRUM_CONFIG",
		"SCRUM_LOG_LEVEL",
		"SCRUM_DB_PATH",
		"SCRUM_HALF_DURATION_MINUTES",
		"SCRUM_SIN_BIN_SECONDS",
		"SCRUM_INJURY_INCREMENT_SECONDS",
		"SCRUM_SAVE_QUEUE_SIZE",
		"SCRUM_SAVE_RETRIES",
		"SCRUM_SAVE_RETRY_DELAY_MS",
		"SCRUM_SIM_SEED",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scrum-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
