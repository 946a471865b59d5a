package main

import (
	"context"
	"os"
	"testing"

	"github.com/okian/evsig/internal/adapters/http/api"
	service "github.com/okian/evsig/internal/app"
	"github.com/okian/evsig/internal/config"
	"github.com/okian/evsig/pkg/logger"
	"github.com/okian/evsig/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("EVSIG_ADDR", ":8080")
			_ = os.Setenv("EVSIG_GRID_RESOLUTION", "500")
			defer func() {
				_ = os.Unsetenv("EVSIG_ADDR")
				_ = os.Unsetenv("EVSIG_GRID_RESOLUTION")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GridResolution, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc, err := service.New()
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc, err := service.New(
					service.WithGridResolution(500),
					service.WithCurveCacheSize(64),
					service.WithDefaultWindow(0.001, 0.5),
				)
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc, err := service.New()
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then the shared registry should be available", func() {
				convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
			})
		})
	})
}
