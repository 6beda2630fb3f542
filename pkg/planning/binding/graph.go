// Package binding implements the satisfying-binding generator of spec §4.2:
// given a conjunctive condition schema and a state, enumerate every object
// tuple that makes the schema's body true in that state.
//
// Grounded on gokando's lazy ResultStream/iterator idiom (pkg/minikanren/
// stream.go) rendered as a Go 1.23 range-over-func iterator, and on
// original_source/src/algorithms/kpkc.cpp for the k-partite clique search
// used in the general (arity ≥ 2) case.
package binding

import "github.com/mimir-planning/mimir/internal/bitset"

// StaticGraph is the per-schema static consistency graph of spec §3.5,
// built once at grounder-construction time: a vertex for every
// (parameter-position, object) pair consistent with the schema's unary
// static literals, and an edge between vertices of distinct positions
// consistent with its binary static literals.
type StaticGraph struct {
	numParams  int
	partitions [][]int32 // per position: candidate objects, in a stable order
	// offsets[pos]+slot-within-partition is a vertex's dense global id
	// spanning all partitions, the representation KPKC's adjacency bitsets
	// are indexed by.
	offsets []int // cumulative partition sizes
	edges   []*bitset.Set // per global vertex id: bitset of compatible global vertex ids
}

// StaticGraphBuilder accumulates vertices and edges before Build freezes
// them into a StaticGraph; ground.Grounder uses this once per schema.
type StaticGraphBuilder struct {
	numParams int
	verts     [][]int32
	edgeOK    map[[4]int32]bool // [pos1,obj1,pos2,obj2] (pos1<pos2) -> true
}

// NewStaticGraphBuilder starts a builder for a schema with numParams
// parameters.
func NewStaticGraphBuilder(numParams int) *StaticGraphBuilder {
	return &StaticGraphBuilder{
		numParams: numParams,
		verts:     make([][]int32, numParams),
		edgeOK:    make(map[[4]int32]bool),
	}
}

// AddVertex records that obj is a statically-consistent candidate for
// parameter position pos.
func (b *StaticGraphBuilder) AddVertex(pos int, obj int32) {
	b.verts[pos] = append(b.verts[pos], obj)
}

// AddEdge records that (pos1, obj1) and (pos2, obj2) are jointly
// statically consistent. pos1 and pos2 must differ.
func (b *StaticGraphBuilder) AddEdge(pos1 int, obj1 int32, pos2 int, obj2 int32) {
	if pos1 == pos2 {
		return
	}
	if pos1 > pos2 {
		pos1, obj1, pos2, obj2 = pos2, obj2, pos1, obj1
	}
	b.edgeOK[[4]int32{int32(pos1), obj1, int32(pos2), obj2}] = true
}

// Build freezes the builder into an immutable StaticGraph. For a pair of
// positions that no AddEdge call named, every cross-partition vertex pair
// is compatible; once AddEdge names a pair of positions, only the vertex
// pairs recorded for it are compatible (see constrainedPairs).
func (b *StaticGraphBuilder) Build() *StaticGraph {
	offsets := make([]int, b.numParams+1)
	for i, v := range b.verts {
		offsets[i+1] = offsets[i] + len(v)
	}
	total := offsets[b.numParams]

	g := &StaticGraph{
		numParams:  b.numParams,
		partitions: b.verts,
		offsets:    offsets,
		edges:      make([]*bitset.Set, total),
	}
	for i := range g.edges {
		g.edges[i] = bitset.New(total)
	}

	constrained := b.constrainedPairs()

	for pos1 := 0; pos1 < b.numParams; pos1++ {
		for i1, obj1 := range b.verts[pos1] {
			gid1 := offsets[pos1] + i1
			for pos2 := pos1 + 1; pos2 < b.numParams; pos2++ {
				for i2, obj2 := range b.verts[pos2] {
					gid2 := offsets[pos2] + i2
					key := [4]int32{int32(pos1), obj1, int32(pos2), obj2}
					ok := true
					if constrained[[2]int{pos1, pos2}] {
						ok = b.edgeOK[key]
					}
					if ok {
						g.edges[gid1].Set(gid2)
						g.edges[gid2].Set(gid1)
					}
				}
			}
		}
	}
	return g
}

// constrainedPairs returns the set of (pos1,pos2) position pairs that had
// at least one explicit AddEdge call; position pairs never mentioned have
// no binary static literal between them and are therefore always
// compatible (an unconstrained edge in spec §3.5's terms).
func (b *StaticGraphBuilder) constrainedPairs() map[[2]int]bool {
	out := make(map[[2]int]bool)
	for k := range b.edgeOK {
		out[[2]int{int(k[0]), int(k[2])}] = true
	}
	return out
}

// NumParams returns the graph's parameter count.
func (g *StaticGraph) NumParams() int { return g.numParams }

// Partition returns the candidate objects for parameter position pos.
func (g *StaticGraph) Partition(pos int) []int32 { return g.partitions[pos] }

// totalVertices returns how many (position, object) vertices the graph has
// in total, across every partition.
func (g *StaticGraph) totalVertices() int { return g.offsets[g.numParams] }

// globalID returns the dense global vertex id for (pos, the i-th candidate
// object at that position).
func (g *StaticGraph) globalID(pos, i int) int32 { return int32(g.offsets[pos] + i) }

// vertexObject returns the (position, object) pair a global vertex id
// refers to.
func (g *StaticGraph) vertexObject(gid int32) (pos int, obj int32) {
	for p := 0; p < g.numParams; p++ {
		if int(gid) < g.offsets[p+1] {
			return p, g.partitions[p][int(gid)-g.offsets[p]]
		}
	}
	panic("binding: global vertex id out of range")
}

// staticEdge reports whether two global vertices are connected in the
// static graph (always true for vertices in the same partition pair that
// was never explicitly constrained).
func (g *StaticGraph) staticEdge(gid1, gid2 int32) bool {
	return g.edges[gid1].Test(int(gid2))
}
