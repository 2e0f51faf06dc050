package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "image_nodes"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder collects node and workflow execution metrics. A nil *Recorder
// records nothing.
type Recorder struct {
	nodeDuration     *prometheus.HistogramVec
	nodeRuns         *prometheus.CounterVec
	workflowDuration prometheus.Histogram
	workflowRuns     *prometheus.CounterVec
}

// NewRecorder registers the metrics with reg. A nil reg uses the default
// registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Node execution time.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"type", "status"}),
		nodeRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_runs_total",
			Help:      "Node executions by type and status.",
		}, []string{"type", "status"}),
		workflowDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_duration_seconds",
			Help:      "Whole workflow execution time.",
			Buckets:   prometheus.ExponentialBuckets(.01, 4, 8),
		}),
		workflowRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_runs_total",
			Help:      "Workflow executions by status.",
		}, []string{"status"}),
	}
}

// ObserveNode records one node execution.
func (r *Recorder) ObserveNode(typ string, d time.Duration, err error) {
	if r == nil {
		return
	}
	status := statusOf(err)
	r.nodeDuration.WithLabelValues(typ, status).Observe(d.Seconds())
	r.nodeRuns.WithLabelValues(typ, status).Inc()
}

// ObserveWorkflow records one workflow execution.
func (r *Recorder) ObserveWorkflow(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.workflowDuration.Observe(d.Seconds())
	r.workflowRuns.WithLabelValues(statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// Handler serves /metrics from g and a /healthz liveness probe.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	return r
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
