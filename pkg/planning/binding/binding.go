package binding

import "github.com/mimir-planning/mimir/internal/bitset"

// VertexFilter reports whether obj remains a consistent candidate for
// parameter position pos once the current state's fluent/derived unary
// literals are taken into account.
type VertexFilter func(pos int, obj int32) bool

// EdgeFilter reports whether the joint assignment (pos1,obj1)+(pos2,obj2)
// remains consistent once the current state's fluent/derived binary
// literals are taken into account.
type EdgeFilter func(pos1 int, obj1 int32, pos2 int, obj2 int32) bool

// Verify performs the final, exhaustive re-check of every literal in the
// condition (nullary literals, numeric constraints, and any literal this
// package's graph pruning did not fully account for) against a candidate
// binding. It is always called before a binding is yielded, so Bind is
// correct per spec §4.2's contract even when VertexFilter/EdgeFilter only
// prune approximately.
type Verify func(bind []int32) bool

// Bind enumerates every object tuple, ordered by parameter position, that
// satisfies graph's static structure intersected with vertexOK/edgeOK and
// then verify, per spec §4.2: the nullary and unary cases are handled
// directly, the general case via k-clique enumeration over the filtered
// static consistency graph (KPKC, ported from
// original_source/src/algorithms/kpkc.cpp).
//
// Bind calls yield once per satisfying binding in the caller's yield
// function, in the style of a Go 1.23 iterator; returning false from yield
// stops enumeration early, releasing Bind's internal scratch state (spec
// §5's "a consumer may drop a generator at any point").
func Bind(graph *StaticGraph, vertexOK VertexFilter, edgeOK EdgeFilter, verify Verify, yield func([]int32) bool) {
	n := graph.NumParams()

	if n == 0 {
		if verify(nil) {
			yield(nil)
		}
		return
	}

	if n == 1 {
		for _, obj := range graph.Partition(0) {
			if !vertexOK(0, obj) {
				continue
			}
			b := []int32{obj}
			if verify(b) {
				if !yield(b) {
					return
				}
			}
		}
		return
	}

	total := graph.totalVertices()
	partitions := make([][]int32, n)
	active := make([]bool, total)
	for pos := 0; pos < n; pos++ {
		for i, obj := range graph.Partition(pos) {
			if vertexOK(pos, obj) {
				gid := graph.globalID(pos, i)
				partitions[pos] = append(partitions[pos], gid)
				active[gid] = true
			}
		}
	}

	adjacency := make([]*bitset.Set, total)
	for gid := 0; gid < total; gid++ {
		adjacency[gid] = bitset.New(total)
	}
	for pos1 := 0; pos1 < n; pos1++ {
		for _, gid1 := range partitions[pos1] {
			p1, obj1 := graph.vertexObject(gid1)
			for pos2 := pos1 + 1; pos2 < n; pos2++ {
				for _, gid2 := range partitions[pos2] {
					if !graph.staticEdge(gid1, gid2) {
						continue
					}
					p2, obj2 := graph.vertexObject(gid2)
					if edgeOK(p1, obj1, p2, obj2) {
						adjacency[gid1].Set(int(gid2))
						adjacency[gid2].Set(int(gid1))
					}
				}
			}
		}
	}

	findCliques(partitions, adjacency, func(clique []int32) bool {
		b := make([]int32, n)
		for _, gid := range clique {
			pos, obj := graph.vertexObject(gid)
			b[pos] = obj
		}
		if verify(b) {
			return yield(b)
		}
		return true
	})
}
