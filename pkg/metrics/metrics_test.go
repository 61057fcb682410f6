package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	DocumentOperations.WithLabelValues("save", Outcome(nil)).Inc()
	DocumentOperations.WithLabelValues("save", Outcome(errors.New("boom"))).Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(DocumentOperations.WithLabelValues("save", ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(DocumentOperations.WithLabelValues("save", ResultError)))
}
