package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/boringmap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("BORING_PLACES_API_KEY", "test-key")
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.PlacesAPIKey, convey.ShouldEqual, "test-key")
				convey.So(cfg.RadiusMeters, convey.ShouldEqual, 10_000)
				convey.So(cfg.PageDelayMS, convey.ShouldEqual, 2000)
				convey.So(cfg.CategoryWeights, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BORING_ADDR", ":8080")
			_ = os.Setenv("BORING_RADIUS_METERS", "5000")
			_ = os.Setenv("BORING_PAGE_DELAY_MS", "1500")
			_ = os.Setenv("BORING_MAX_PAGES", "3")
			_ = os.Setenv("BORING_PLACES_QPS", "2.5")
			_ = os.Setenv("BORING_TRACING_ENABLED", "true")
			_ = os.Setenv("BORING_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RadiusMeters, convey.ShouldEqual, 5000)
				convey.So(cfg.PageDelayMS, convey.ShouldEqual, 1500)
				convey.So(cfg.MaxPages, convey.ShouldEqual, 3)
				convey.So(cfg.PlacesQPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.TracingEnabled, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
environment: development
max_pages: 5
category_weights:
  bar: 4
  casino: 9
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BORING_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.IsDevelopment(), convey.ShouldBeTrue)
				convey.So(cfg.MaxPages, convey.ShouldEqual, 5)
				convey.So(cfg.RadiusMeters, convey.ShouldEqual, 10_000) // From defaults
			})

			convey.Convey("And the weight table replaces the defaults", func() {
				convey.So(cfg.CategoryWeights, convey.ShouldResemble, map[string]int{"bar": 4, "casino": 9})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_pages: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BORING_CONFIG", tmpFile)
			_ = os.Setenv("BORING_ADDR", ":8080") // This should override the file

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.MaxPages, convey.ShouldEqual, 5)   // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BORING_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("BORING_CONFIG", "/nonexistent/boringmap.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("BORING_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the key only comes from GOOGLE_API_KEY", func() {
			_ = os.Unsetenv("BORING_PLACES_API_KEY")
			_ = os.Setenv("GOOGLE_API_KEY", "google-key")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is used as the places key", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.PlacesAPIKey, convey.ShouldEqual, "google-key")
			})
		})

		convey.Convey("When no key is configured anywhere", func() {
			_ = os.Unsetenv("BORING_PLACES_API_KEY")

			cfg, err := config.Load(ctx)

			convey.Convey("Then startup configuration fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BORING_MAX_PAGES", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions

func clearConfigEnvVars() {
	for _, name := range []string{
		"BORING_CONFIG",
		"BORING_ADDR",
		"BORING_LOG_LEVEL",
		"BORING_LOG_FORMAT",
		"BORING_ENVIRONMENT",
		"BORING_PLACES_API_KEY",
		"BORING_PLACES_QPS",
		"BORING_RADIUS_METERS",
		"BORING_PAGE_DELAY_MS",
		"BORING_MAX_PAGES",
		"BORING_TRACING_ENABLED",
		"GOOGLE_API_KEY",
	} {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "boringmap-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
