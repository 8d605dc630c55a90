package metrics

import "time"

// ResultLabel enumerates per-record pipeline outcomes for counters.
type ResultLabel string

const (
	ResultStored  ResultLabel = "stored"
	ResultSkipped ResultLabel = "skipped"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for build metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe on
// a zero-value receiver so the noop default can be injected freely.
type Recorder interface {
	ObserveCollectionDuration(collection string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncRecordResult(collection string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|failed|canceled
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCollectionDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)              {}
func (NoopRecorder) IncRecordResult(string, ResultLabel)             {}
func (NoopRecorder) IncBuildOutcome(string)                          {}
