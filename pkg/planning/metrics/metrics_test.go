package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/events"
)

func TestCollectorExportsAllDescriptors(t *testing.T) {
	snap := events.Statistics{
		Expanded:           4,
		Generated:          9,
		Pruned:             2,
		Solved:             true,
		PlanLength:         3,
		CacheHits:          5,
		CacheMisses:        1,
		MatchTreeBuildTime: 250 * time.Millisecond,
	}
	c := NewCollector(func() events.Statistics { return snap })

	require.Equal(t, 12, testutil.CollectAndCount(c))
}

func TestCollectorReadsLatestSnapshotOnEachCollect(t *testing.T) {
	calls := 0
	c := NewCollector(func() events.Statistics {
		calls++
		return events.Statistics{Expanded: int64(calls)}
	})

	metrics := collectOne(t, c, "mimir_search_expanded_total")
	require.Equal(t, float64(1), metrics.GetCounter().GetValue())

	metrics = collectOne(t, c, "mimir_search_expanded_total")
	require.Equal(t, float64(2), metrics.GetCounter().GetValue())
}

// collectOne runs one Collect pass and returns the metric matching name,
// failing the test if it isn't present.
func collectOne(t *testing.T, c prometheus.Collector, name string) *dto.Metric {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == name {
			require.Len(t, fam.Metric, 1)
			return fam.Metric[0]
		}
	}
	t.Fatalf("metric %q not found", name)
	return nil
}
