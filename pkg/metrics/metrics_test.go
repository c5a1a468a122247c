package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("board"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.refreshCycles.WithLabelValues(ResultSuccess).Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_board_refresh_cycles_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording refresh cycles", func() {
			before := testutil.ToFloat64(globalManager.refreshCycles.WithLabelValues(ResultFetchError))
			RecordRefreshCycle(ResultFetchError, 12)
			RecordRefreshCycle(ResultFetchError, 30)

			Convey("Then the labelled counter grows", func() {
				after := testutil.ToFloat64(globalManager.refreshCycles.WithLabelValues(ResultFetchError))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When toggling the generating gauge", func() {
			SetGenerating(true)
			So(testutil.ToFloat64(globalManager.generating), ShouldEqual, 1)
			SetGenerating(false)
			So(testutil.ToFloat64(globalManager.generating), ShouldEqual, 0)
		})

		Convey("When publishing an image", func() {
			RecordImagePublished(4096)

			Convey("Then the size gauge tracks the last image", func() {
				So(testutil.ToFloat64(globalManager.publishedImageSize), ShouldEqual, 4096)
			})
		})

		Convey("When recording render side effects", func() {
			So(func() {
				UpdateTeamsRendered(12)
				RecordTeamsDropped(2)
				RecordLogoMiss("not_found")
				RecordFontFallback()
				RecordFetchLatency(120)
				RecordFetchError()
				RecordRenderLatency(40)
				RecordPublishError("s3")
				UpdateLastSuccess(1700000000)
				RecordHTTPRequest("image", "GET", "200")
				RecordHTTPRequestDuration("image", "GET", "200", 3)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.teamsRendered), ShouldEqual, 12)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent HTTP metric updates", t, func() {
		before := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("debug", "GET", "200"))
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordHTTPRequest("debug", "GET", "200")
			}()
		}
		wg.Wait()

		So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("debug", "GET", "200"))-before, ShouldEqual, 10)
		So(GetRegistry(), ShouldNotBeNil)
	})
}
