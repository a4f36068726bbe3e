package main

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/scorecast/scorecast/internal/adapters/http/api"
	"github.com/scorecast/scorecast/internal/app"
	"github.com/scorecast/scorecast/internal/config"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SCORECAST_ADDR", ":8080")
			_ = os.Setenv("SCORECAST_QUEUE_SIZE", "1000")
			_ = os.Setenv("SCORECAST_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("SCORECAST_ADDR")
				_ = os.Unsetenv("SCORECAST_QUEUE_SIZE")
				_ = os.Unsetenv("SCORECAST_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP route registration", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then the API server should register on a mux", func() {
				server := api.NewServer(svc, svc, 100)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(func() { server.Register(context.Background(), mux) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When refreshing service metrics", func() {
			svc := app.New()

			convey.Convey("Then the updater should tolerate a stopped service", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
