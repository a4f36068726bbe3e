package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with a custom namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording prediction metrics", func() {
			So(RecordPredictionInserted, ShouldNotPanic)
			So(RecordPredictionDuplicate, ShouldNotPanic)
			So(RecordPredictionInvalid, ShouldNotPanic)
		})

		Convey("When recording session metrics", func() {
			So(func() { RecordSessionEvent("start") }, ShouldNotPanic)
			So(func() { UpdateActiveSessions(3) }, ShouldNotPanic)
			So(RecordWalkthroughCompleted, ShouldNotPanic)
			So(RecordWalkthroughAborted, ShouldNotPanic)
		})

		Convey("When recording settlement metrics", func() {
			So(RecordAwardApplied, ShouldNotPanic)
			So(RecordAwardDuplicate, ShouldNotPanic)
			So(func() { UpdateQueueSize(5) }, ShouldNotPanic)
			So(func() { UpdateQueueCapacity(100) }, ShouldNotPanic)
			So(RecordQueueEnqueueError, ShouldNotPanic)
			So(RecordWorkerError, ShouldNotPanic)
		})

		Convey("When recording store and HTTP metrics", func() {
			So(func() { RecordStoreQueryLatency(1.5) }, ShouldNotPanic)
			So(func() { RecordStoreWriteLatency(2.5) }, ShouldNotPanic)
			So(func() { RecordHTTPRequest("events", "POST", "200") }, ShouldNotPanic)
			So(func() { RecordHTTPRequestDuration("events", "POST", 12) }, ShouldNotPanic)
			So(func() { UpdateUsersTotal(9) }, ShouldNotPanic)
		})

		Convey("When reading the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
