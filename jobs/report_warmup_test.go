package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/almacen-erp/almacen-erp/internal/observability"
	"github.com/almacen-erp/almacen-erp/internal/shared"
)

func TestReportWarmupDefaultsToCurrentMonth(t *testing.T) {
	var warmed []string
	loaders := map[string]WarmFunc{
		"summary": func(_ context.Context, q shared.RangeQuery) error {
			warmed = append(warmed, q.Month)
			return nil
		},
	}
	job := NewReportWarmupJob(testLogger(), observability.NewMetrics(), loaders)
	job.WithClock(func() time.Time {
		return time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC)
	})

	task, err := NewReportWarmupTask(ReportWarmupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []string{"2024-03"}, warmed)
}

func TestReportWarmupExplicitMonth(t *testing.T) {
	var warmed []string
	loaders := map[string]WarmFunc{
		"fiscal": func(_ context.Context, q shared.RangeQuery) error {
			warmed = append(warmed, q.Month)
			return nil
		},
	}
	job := NewReportWarmupJob(testLogger(), observability.NewMetrics(), loaders)

	task, err := NewReportWarmupTask(ReportWarmupPayload{Month: "2024-02"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []string{"2024-02"}, warmed)
}
