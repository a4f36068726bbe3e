package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/app"
	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/internal/domain/session"
	"github.com/scorecast/scorecast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := app.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(100),
			app.WithDedupeSize(1000),
			app.WithLeaderboardSize(5),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New(app.WithDBPath(filepath.Join(t.TempDir(), "svc.db")))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := app.New(app.WithDBPath(filepath.Join(t.TempDir(), "svc.db")))

		Convey("Then facade calls report not started", func() {
			ctx := context.Background()
			_, err := svc.Handle(ctx, session.Event{UserID: 1, Action: session.ActionStart})
			So(err, ShouldEqual, app.ErrNotStarted)

			_, err = svc.TopN(ctx, 10)
			So(err, ShouldEqual, app.ErrNotStarted)

			err = svc.SubmitAward(ctx, model.Award{EventID: "e", UserID: 1, Delta: 1})
			So(err, ShouldEqual, app.ErrNotStarted)
		})

		Convey("And Stop is safe to call", func() {
			So(svc.Stop, ShouldNotPanic)
		})
	})
}

func TestService_SubmitAward(t *testing.T) {
	Convey("Given a running service with one known user", t, func() {
		svc := app.New(
			app.WithDBPath(filepath.Join(t.TempDir(), "svc.db")),
			app.WithWorkerCount(1),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		_, err := svc.Handle(ctx, session.Event{UserID: 1, Action: session.ActionStart})
		So(err, ShouldBeNil)

		Convey("When submitting an award", func() {
			err := svc.SubmitAward(ctx, model.Award{EventID: "evt-1", UserID: 1, Delta: 7})

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the points should be applied asynchronously", func() {
				So(err, ShouldBeNil)
				So(waitForPoints(ctx, svc, 1, 7), ShouldBeTrue)
			})

			Convey("And redelivering the same event id should be rejected", func() {
				So(svc.SubmitAward(ctx, model.Award{EventID: "evt-1", UserID: 1, Delta: 7}),
					ShouldEqual, app.ErrDuplicateAward)
				So(waitForPoints(ctx, svc, 1, 7), ShouldBeTrue)
			})
		})

		Convey("When the start context is canceled after startup", func() {
			cancel()

			Convey("Then workers keep draining awards until Stop", func() {
				So(svc.SubmitAward(context.Background(),
					model.Award{EventID: "evt-late", UserID: 1, Delta: 9}), ShouldBeNil)
				So(waitForPoints(context.Background(), svc, 1, 9), ShouldBeTrue)
			})
		})

		Convey("When submitting distinct event ids for the same user", func() {
			So(svc.SubmitAward(ctx, model.Award{EventID: "evt-a", UserID: 1, Delta: 3}), ShouldBeNil)
			So(svc.SubmitAward(ctx, model.Award{EventID: "evt-b", UserID: 1, Delta: 4}), ShouldBeNil)

			Convey("Then both deltas should land", func() {
				So(waitForPoints(ctx, svc, 1, 7), ShouldBeTrue)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := app.New(app.WithDBPath(filepath.Join(t.TempDir(), "svc.db")))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		_, err := svc.Handle(ctx, session.Event{UserID: 5, Action: session.ActionStart})
		So(err, ShouldBeNil)

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then they should describe the running state", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["activeSessions"], ShouldEqual, 1)
				So(stats["totalUsers"], ShouldEqual, 1)
			})
		})
	})
}

// waitForPoints polls the rank facade until the award workers have
// applied the expected total, or the deadline passes.
func waitForPoints(ctx context.Context, svc *app.Service, userID int64, want int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		entry, err := svc.Rank(ctx, userID)
		if err == nil && entry.Points == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
