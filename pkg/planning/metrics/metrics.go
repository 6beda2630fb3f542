// Package metrics adapts events.Statistics to Prometheus for long-running
// batch-planning use (spec §4.10/L's statistics snapshot, exported as
// gauges). The planning core itself never imports prometheus — only this
// package does — so a caller that doesn't want metrics never pays for the
// dependency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mimir-planning/mimir/pkg/planning/events"
)

// Collector is a prometheus.Collector over a live events.Statistics
// snapshot, pulled on demand rather than pushed: a search run's
// events.Debug handler accumulates counters single-threadedly (spec §5
// guarantees one search owns one of each component at a time), and this
// collector reads the latest snapshot only when Prometheus scrapes it.
type Collector struct {
	source func() events.Statistics

	expanded            *prometheus.Desc
	generated           *prometheus.Desc
	pruned              *prometheus.Desc
	solved              *prometheus.Desc
	planLength          *prometheus.Desc
	exhausted           *prometheus.Desc
	layersClosed        *prometheus.Desc
	cacheHits           *prometheus.Desc
	cacheMisses         *prometheus.Desc
	inapplicable        *prometheus.Desc
	matchTreeBuildTime  *prometheus.Desc
	stratumIterations   *prometheus.Desc
}

// NewCollector builds a Collector that reads its snapshot from source each
// time Prometheus calls Collect.
func NewCollector(source func() events.Statistics) *Collector {
	ns := "mimir_search"
	return &Collector{
		source:             source,
		expanded:           prometheus.NewDesc(ns+"_expanded_total", "Ground states expanded by the search loop.", nil, nil),
		generated:          prometheus.NewDesc(ns+"_generated_total", "Successor states generated by the search loop.", nil, nil),
		pruned:             prometheus.NewDesc(ns+"_pruned_total", "Successor states pruned as non-novel.", nil, nil),
		solved:             prometheus.NewDesc(ns+"_solved", "1 if the most recent search run reached the goal, else 0.", nil, nil),
		planLength:         prometheus.NewDesc(ns+"_plan_length", "Length of the most recently found plan.", nil, nil),
		exhausted:          prometheus.NewDesc(ns+"_exhausted", "1 if the most recent search run exhausted its bound without reaching the goal.", nil, nil),
		layersClosed:       prometheus.NewDesc(ns+"_layers_closed_total", "Search layers closed.", nil, nil),
		cacheHits:          prometheus.NewDesc(ns+"_grounder_cache_hits_total", "Grounder (schema, binding) cache hits.", nil, nil),
		cacheMisses:        prometheus.NewDesc(ns+"_grounder_cache_misses_total", "Grounder (schema, binding) cache misses.", nil, nil),
		inapplicable:       prometheus.NewDesc(ns+"_inapplicable_actions_total", "Candidate bindings rejected by the final verify pass.", nil, nil),
		matchTreeBuildTime: prometheus.NewDesc(ns+"_match_tree_build_seconds", "Time spent building the grounded applicable-action match tree.", nil, nil),
		stratumIterations:  prometheus.NewDesc(ns+"_stratum_iterations_total", "Axiom-evaluator per-stratum fixpoint iterations.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.expanded
	ch <- c.generated
	ch <- c.pruned
	ch <- c.solved
	ch <- c.planLength
	ch <- c.exhausted
	ch <- c.layersClosed
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.inapplicable
	ch <- c.matchTreeBuildTime
	ch <- c.stratumIterations
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source()

	ch <- prometheus.MustNewConstMetric(c.expanded, prometheus.CounterValue, float64(stats.Expanded))
	ch <- prometheus.MustNewConstMetric(c.generated, prometheus.CounterValue, float64(stats.Generated))
	ch <- prometheus.MustNewConstMetric(c.pruned, prometheus.CounterValue, float64(stats.Pruned))
	ch <- prometheus.MustNewConstMetric(c.solved, prometheus.GaugeValue, boolToFloat(stats.Solved))
	ch <- prometheus.MustNewConstMetric(c.planLength, prometheus.GaugeValue, float64(stats.PlanLength))
	ch <- prometheus.MustNewConstMetric(c.exhausted, prometheus.GaugeValue, boolToFloat(stats.Exhausted))
	ch <- prometheus.MustNewConstMetric(c.layersClosed, prometheus.CounterValue, float64(stats.LayersClosed))
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.CounterValue, float64(stats.CacheHits))
	ch <- prometheus.MustNewConstMetric(c.cacheMisses, prometheus.CounterValue, float64(stats.CacheMisses))
	ch <- prometheus.MustNewConstMetric(c.inapplicable, prometheus.CounterValue, float64(stats.InapplicableActions))
	ch <- prometheus.MustNewConstMetric(c.matchTreeBuildTime, prometheus.GaugeValue, stats.MatchTreeBuildTime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.stratumIterations, prometheus.CounterValue, float64(stats.StratumIterations))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
