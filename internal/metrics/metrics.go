// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides a minimal instrumentation interface with a no-op
// default and a Prometheus-backed implementation.
package metrics

import (
	"sync"
	"time"
)

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	ObserveCall(service, op string, success bool, seconds float64)
	ObserveStep(step string, success bool, seconds float64)
	IncIntent(intent string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCall(string, string, bool, float64) {}
func (noopRecorder) ObserveStep(string, bool, float64)         {}
func (noopRecorder) IncIntent(string)                          {}

var (
	recMu    sync.RWMutex
	recorder Recorder = noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeCall times one call to an external service (llm, web, arxiv, store).
func TimeCall(service, op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		Default().ObserveCall(service, op, success, time.Since(start).Seconds())
	}
}

// TimeStep times one workflow step.
func TimeStep(step string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		Default().ObserveStep(step, success, time.Since(start).Seconds())
	}
}
