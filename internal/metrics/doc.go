// Package metrics provides optional build observability behind a small
// Recorder interface. The builder takes a Recorder and defaults to
// NoopRecorder, so metrics cost nothing unless a Prometheus registry is
// wired in.
package metrics
