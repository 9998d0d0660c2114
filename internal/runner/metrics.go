package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cases    *prometheus.CounterVec
	retries  prometheus.Counter
	captured prometheus.Counter
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		cases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "remapcheck_cases_total",
			Help: "Test cases run, by outcome",
		}, []string{"outcome"}),
		retries: f.NewCounter(prometheus.CounterOpts{
			Name: "remapcheck_capture_retries_total",
			Help: "Captures repeated because the first drain came up short",
		}),
		captured: f.NewCounter(prometheus.CounterOpts{
			Name: "remapcheck_captured_events_total",
			Help: "Key events captured from the output device",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "remapcheck_case_duration_seconds",
			Help:    "Wall time of a single test case, stimulus to verdict",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}),
	}
}

func (m *metrics) observe(res *Result) {
	m.cases.WithLabelValues(res.Outcome.Kind.String()).Inc()
	m.captured.Add(float64(len(res.Captured)))
	m.duration.Observe(res.Elapsed.Seconds())
	if res.Retried {
		m.retries.Inc()
	}
}
