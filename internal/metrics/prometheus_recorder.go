package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	collectionDuration *prom.HistogramVec
	buildDuration      prom.Histogram
	recordResults      *prom.CounterVec
	buildOutcome       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers build metrics. Register each
// recorder with its own registry: a second registration against the same
// registry panics in MustRegister.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		collectionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "foldcms",
			Name:      "collection_build_duration_seconds",
			Help:      "Duration of individual collection builds",
			Buckets:   prom.DefBuckets,
		}, []string{"collection"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "foldcms",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		recordResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "foldcms",
			Name:      "record_results_total",
			Help:      "Per-record pipeline results by outcome",
		}, []string{"collection", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "foldcms",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.collectionDuration, pr.buildDuration, pr.recordResults, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveCollectionDuration(collection string, d time.Duration) {
	if p == nil || p.collectionDuration == nil {
		return
	}
	p.collectionDuration.WithLabelValues(collection).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRecordResult(collection string, result ResultLabel) {
	if p == nil || p.recordResults == nil {
		return
	}
	p.recordResults.WithLabelValues(collection, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
