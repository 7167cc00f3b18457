package metrics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/adapters/metrics"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
)

type planCommand struct{}

type listQuery struct{}

type stubHandler struct{ err error }

func (h *stubHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return nil, h.err
}

// exposition initialises a fresh registry, runs record and returns the
// textfile written from it
func exposition(t *testing.T, record func()) string {
	t.Helper()
	metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	record()

	path := filepath.Join(t.TempDir(), "planner.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRecordPlan_GlobalCollector(t *testing.T) {
	out := exposition(t, func() {
		collector := metrics.NewPlanningMetricsCollector()
		require.NoError(t, collector.Register())
		metrics.SetGlobalPlanningCollector(collector)

		metrics.RecordPlan(metrics.PlanStats{
			Recipe: "smart_plating", Success: true, DurationSeconds: 0.002,
			TreeNodes: 14, GraphNodes: 7, ScalePasses: 2, Converged: true,
		})
		metrics.RecordPlan(metrics.PlanStats{
			Recipe: "wire", Success: true, ScalePasses: 1, Converged: false,
			TruncatedNodes: 3, Unresolved: []string{"copper_ore"},
		})
		metrics.RecordPlan(metrics.PlanStats{Recipe: "nothing", Success: false})
	})

	assert.Contains(t, out, `factory_planner_planner_plans_total{status="success"} 2`)
	assert.Contains(t, out, `factory_planner_planner_plans_total{status="error"} 1`)
	assert.Contains(t, out, "factory_planner_planner_scale_not_converged_total 1")
	assert.Contains(t, out, "factory_planner_planner_depth_truncated_nodes_total 3")
	assert.Contains(t, out, `factory_planner_planner_unresolved_resources_total{resource="copper_ore"} 1`)
	assert.Contains(t, out, "factory_planner_planner_graph_nodes_count 2")
}

func TestPrometheusMiddleware_LabelsRequests(t *testing.T) {
	out := exposition(t, func() {
		collector := metrics.NewRequestMetricsCollector()
		require.NoError(t, collector.Register())

		m := mediator.NewMediator()
		require.NoError(t, mediator.RegisterHandler[*planCommand](m, &stubHandler{}))
		require.NoError(t, mediator.RegisterHandler[*listQuery](m, &stubHandler{err: errors.New("boom")}))
		m.RegisterMiddleware(metrics.PrometheusMiddleware(collector))

		_, err := m.Send(context.Background(), &planCommand{})
		require.NoError(t, err)
		_, err = m.Send(context.Background(), &listQuery{})
		require.Error(t, err)
	})

	assert.Contains(t, out, `factory_planner_planner_requests_total{kind="command",request="planCommand",status="success"} 1`)
	assert.Contains(t, out, `factory_planner_planner_requests_total{kind="query",request="listQuery",status="error"} 1`)
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*planCommand](m, &stubHandler{}))
	m.RegisterMiddleware(metrics.PrometheusMiddleware(nil))

	_, err := m.Send(context.Background(), &planCommand{})

	assert.NoError(t, err)
}

func TestDisabledMetrics(t *testing.T) {
	metrics.Reset()

	assert.False(t, metrics.IsEnabled())
	assert.Nil(t, metrics.GetRegistry())
	assert.NoError(t, metrics.NewPlanningMetricsCollector().Register())

	path := filepath.Join(t.TempDir(), "never.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	assert.NoFileExists(t, path)

	// no collector installed: recording is a no-op
	metrics.RecordPlan(metrics.PlanStats{Success: true})
}
