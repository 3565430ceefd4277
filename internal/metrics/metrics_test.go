// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	old := Default()
	t.Cleanup(func() { SetRecorder(old) })

	reg := prom.NewRegistry()
	require.NoError(t, EnablePrometheus(reg))

	TimeCall("web", "search")(true)
	TimeCall("web", "search")(false)
	TimeStep("router")(true)
	Default().IncIntent("add_paper")

	p := Default().(*promRecorder)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.callTotal.WithLabelValues("web", "search", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.callTotal.WithLabelValues("web", "search", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.stepTotal.WithLabelValues("router", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.intents.WithLabelValues("add_paper")))
}

func TestEnablePrometheusTwiceFails(t *testing.T) {
	old := Default()
	t.Cleanup(func() { SetRecorder(old) })

	reg := prom.NewRegistry()
	require.NoError(t, EnablePrometheus(reg))
	assert.Error(t, EnablePrometheus(reg))
}

func TestNoopRecorderIsDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		noopRecorder{}.ObserveCall("x", "y", true, 1)
		noopRecorder{}.ObserveStep("x", true, 1)
		noopRecorder{}.IncIntent("x")
	})
}
