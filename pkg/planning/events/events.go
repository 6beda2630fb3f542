// Package events implements the handler/statistics layer of spec §4.10:
// small observer interfaces for search, the axiom evaluator, and the
// grounder, implemented by Default (the no-op handler) and Debug, each
// exposing a Statistics snapshot on demand. The core never
// depends on a concrete handler implementation.
//
// Grounded on gokando's constraint_manager.go SolverMetrics/PoolStats
// counters (a registry that owns hit/miss/timing counters the way this
// package's handlers own expand/generate/prune counters); zap backs the
// Debug handler.
package events

import (
	"time"

	"go.uber.org/zap"
)

// SearchHandler observes one search run (spec §4.10: "one per search
// algorithm (expand, generate, prune, solve, exhaust, close layer)").
type SearchHandler interface {
	Expand(stateIdx int32)
	Generate(stateIdx int32)
	Prune(stateIdx int32)
	Solve(planLen int)
	Exhaust()
	CloseLayer(layer int)
}

// GrounderHandler observes grounder cache activity and static-precondition
// rejections during construction.
type GrounderHandler interface {
	CacheHit()
	CacheMiss()
	Inapplicable()
}

// AxiomHandler observes the axiom evaluator's match-tree build and
// per-stratum closure timing.
type AxiomHandler interface {
	MatchTreeBuilt(d time.Duration)
	StratumClosed(stratum int, iterations int)
}

// Statistics is a point-in-time snapshot of every counter a handler has
// accumulated, exposed by both Default and Debug on demand.
type Statistics struct {
	Expanded, Generated, Pruned int64
	Solved                      bool
	PlanLength                  int
	Exhausted                   bool
	LayersClosed                int

	CacheHits, CacheMisses int64
	InapplicableActions    int64

	MatchTreeBuildTime time.Duration
	StratumIterations  int64
}

// Default is the zero-cost handler used when no observer is wired in: it
// counts nothing and its Statistics snapshot is always the zero value.
type Default struct{}

func (Default) Expand(int32)         {}
func (Default) Generate(int32)       {}
func (Default) Prune(int32)          {}
func (Default) Solve(int)            {}
func (Default) Exhaust()             {}
func (Default) CloseLayer(int)       {}
func (Default) CacheHit()            {}
func (Default) CacheMiss()           {}
func (Default) Inapplicable()        {}
func (Default) MatchTreeBuilt(time.Duration) {}
func (Default) StratumClosed(int, int)       {}

// Statistics returns the zero value: Default counts nothing.
func (Default) Statistics() Statistics { return Statistics{} }

// Debug counts every event and logs through zap: solve and exhaust at info
// level, cache hits and misses not at all, every other event at debug
// level. It implements SearchHandler, GrounderHandler, and AxiomHandler at once,
// since one debug run typically wants all three wired to the same logger.
type Debug struct {
	log *zap.Logger
	stats Statistics
}

// NewDebug returns a Debug handler logging through log.
func NewDebug(log *zap.Logger) *Debug { return &Debug{log: log} }

func (d *Debug) Expand(stateIdx int32) {
	d.stats.Expanded++
	d.log.Debug("expand", zap.Int32("state", stateIdx))
}

func (d *Debug) Generate(stateIdx int32) {
	d.stats.Generated++
	d.log.Debug("generate", zap.Int32("state", stateIdx))
}

func (d *Debug) Prune(stateIdx int32) {
	d.stats.Pruned++
	d.log.Debug("prune", zap.Int32("state", stateIdx))
}

func (d *Debug) Solve(planLen int) {
	d.stats.Solved = true
	d.stats.PlanLength = planLen
	d.log.Info("solved", zap.Int("plan_length", planLen))
}

func (d *Debug) Exhaust() {
	d.stats.Exhausted = true
	d.log.Info("exhausted")
}

func (d *Debug) CloseLayer(layer int) {
	d.stats.LayersClosed++
	d.log.Debug("close_layer", zap.Int("layer", layer))
}

func (d *Debug) CacheHit() {
	d.stats.CacheHits++
}

func (d *Debug) CacheMiss() {
	d.stats.CacheMisses++
}

func (d *Debug) Inapplicable() {
	d.stats.InapplicableActions++
	d.log.Debug("inapplicable_schema")
}

func (d *Debug) MatchTreeBuilt(dur time.Duration) {
	d.stats.MatchTreeBuildTime += dur
	d.log.Debug("match_tree_built", zap.Duration("took", dur))
}

func (d *Debug) StratumClosed(stratum, iterations int) {
	d.stats.StratumIterations += int64(iterations)
	d.log.Debug("stratum_closed", zap.Int("stratum", stratum), zap.Int("iterations", iterations))
}

// Statistics returns a snapshot of every counter observed so far.
func (d *Debug) Statistics() Statistics { return d.stats }
