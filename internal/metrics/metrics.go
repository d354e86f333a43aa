package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogcamping_console",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	blogActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogcamping_console",
			Name:      "blog_actions_total",
			Help:      "Blog moderation actions by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	realtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ogcamping_console",
			Name:      "realtime_events_total",
			Help:      "Realtime blog events by console and outcome.",
		},
		[]string{"console", "outcome"},
	)

	realtimeConnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ogcamping_console",
			Name:      "realtime_connects_total",
			Help:      "Realtime subscriptions established, including reconnects.",
		},
	)

	openConsoles = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ogcamping_console",
			Name:      "open_consoles",
			Help:      "Console sessions currently open.",
		},
		[]string{"console"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, blogActions, realtimeEvents, realtimeConnects, openConsoles)
	})
}

// InstrumentHandler counts the requests served by next.
func InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(httpRequests, next)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncAction records the outcome of a state transition action.
func IncAction(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	blogActions.WithLabelValues(action, outcome).Inc()
}

func IncEvent(console, outcome string) {
	realtimeEvents.WithLabelValues(console, outcome).Inc()
}

func IncConnect() {
	realtimeConnects.Inc()
}

func ConsoleOpened(console string) {
	openConsoles.WithLabelValues(console).Inc()
}

func ConsoleClosed(console string) {
	openConsoles.WithLabelValues(console).Dec()
}
