package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "absensi", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "absensi", Name: "handler_errors_total", Help: "Handler errors",
	})
	Submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "absensi", Name: "roster_submissions_total", Help: "Persisted roster submissions",
	})
	Reports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "absensi", Name: "reports_total", Help: "Generated report documents",
	}, []string{"kind"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "absensi", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, Submissions, Reports, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
