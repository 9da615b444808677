package production

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

func TestMetricsObserveEvaluations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	root := nestedGraph()
	m, err := core.NewMachine(root,
		core.WithObserver(metrics),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	_, err = m.Evaluate(context.Background(), primitives.NewEvent("E12", nil))
	require.NoError(t, err)
	_, err = m.Evaluate(context.Background(), primitives.NewEvent("nothing", nil))
	require.NoError(t, err)

	boom := errors.New("boom")
	root.Active().AddDuring(primitives.HandlerFunc(func(context.Context, primitives.Event) (any, error) {
		return nil, boom
	}))
	_, err = m.Evaluate(context.Background(), primitives.NewEvent("nothing", nil))
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Evaluations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evaluations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("S1", "S2")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
