package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	PostsRetrieved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xsweep_posts_retrieved_total",
			Help: "Total number of post IDs added to the pending queue",
		},
	)

	PostsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xsweep_posts_deleted_total",
			Help: "Total number of posts successfully deleted",
		},
	)

	DeleteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xsweep_delete_failures_total",
			Help: "Total number of posts dropped after a failed delete call",
		},
	)

	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsweep_api_errors_total",
			Help: "Total number of upstream API errors",
		},
		[]string{"operation"},
	)

	QueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "xsweep_pending_queue_length",
			Help: "Number of post IDs still awaiting deletion",
		},
	)
)

// Push sends the run's metrics to a Pushgateway. The tool is a short-lived
// batch job, so there is no serving process for Prometheus to scrape.
func Push(gatewayURL, mode string) error {
	return push.New(gatewayURL, "xsweep").
		Collector(PostsRetrieved).
		Collector(PostsDeleted).
		Collector(DeleteFailures).
		Collector(APIErrors).
		Collector(QueueLength).
		Grouping("mode", mode).
		Push()
}
