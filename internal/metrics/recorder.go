// Package metrics defines observability hooks for the indexing pipeline.
// Components receive a Recorder through injection; NoopRecorder is the
// default so callers never nil-check.
package metrics

import "time"

// Recorder defines observability hooks for indexing metrics. Implementations
// may forward to Prometheus etc. NoopRecorder satisfies the interface with
// zero overhead when metrics are not configured.
type Recorder interface {
	ObserveIndexDuration(d time.Duration, success bool)
	IncAssetResult(success bool)
	AddPagesWritten(n int)
	IncContractViolation()
	IncCatalogSkip()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveIndexDuration(time.Duration, bool) {}
func (NoopRecorder) IncAssetResult(bool)                      {}
func (NoopRecorder) AddPagesWritten(int)                      {}
func (NoopRecorder) IncContractViolation()                    {}
func (NoopRecorder) IncCatalogSkip()                          {}
