// Package bufpool provides scoped-acquisition scratch buffer pools for the
// planning core's hot loops (binding generation's KPKC backtracking).
//
// The teacher (pkg/minikanren/pool.go) pools full ConstraintStore values
// behind a reference-counted Get/Put pair with separate local/global pools
// and atomic hit/miss/eviction counters, because a constraint store can be
// shared across concurrently-running goroutines. The planning core is
// single-threaded cooperative (spec §5): one search owns one of each
// component at a time, and buffers never outlive the expansion that
// borrowed them. Reference counting and atomics are therefore unneeded
// overhead here (see DESIGN.md, Open Question 1) — this package keeps the
// teacher's underlying sync.Pool freelist but drops the refcount/eviction
// machinery in favour of a plain Acquire/Release pair.
package bufpool

import "sync"

// Int32Pool recycles []int32 scratch slices.
type Int32Pool struct {
	pool sync.Pool
}

// NewInt32Pool returns a pool of slices pre-sized to cap.
func NewInt32Pool(cap int) *Int32Pool {
	return &Int32Pool{
		pool: sync.Pool{
			New: func() any {
				s := make([]int32, 0, cap)
				return &s
			},
		},
	}
}

// Acquire borrows a zero-length slice with spare capacity. The caller must
// call Release when done; the slice must not be retained afterward.
func (p *Int32Pool) Acquire() []int32 {
	s := p.pool.Get().(*[]int32)
	return (*s)[:0]
}

// Release returns a slice acquired from Acquire back to the pool.
func (p *Int32Pool) Release(s []int32) {
	s = s[:0]
	p.pool.Put(&s)
}
