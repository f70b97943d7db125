package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementValidation("Squid", OutcomeValid)
	m.IncrementValidation("Squid", OutcomeValid)
	m.IncrementValidation("Squid", OutcomeInvalid)
	m.ObserveValidator("builtin", 3*time.Millisecond)
	m.SetPlugins(2)
	m.AddRecords("builtin", 9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Validations.WithLabelValues("Squid", OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("Squid", OutcomeInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PluginsInstalled))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.RecordsInstalled.WithLabelValues("builtin")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ValidatorLatency))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementValidation("Squid", OutcomeFault)
		m.ObserveValidator("builtin", time.Second)
		m.SetPlugins(1)
		m.AddRecords("builtin", 1)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncrementValidation("IntSequence1", OutcomeValid)

	path := filepath.Join(t.TempDir(), "qval.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `qval_validations_total{outcome="valid",type="IntSequence1"} 1`), string(data))
}
