package binding

import (
	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/internal/bufpool"
)

// partialPool recycles the backtracking scratch buffer across calls to
// findCliques; one state expansion can call it once per action schema.
var partialPool = bufpool.NewInt32Pool(8)

// findCliques enumerates every size-k clique in a k-partite graph given as
// per-partition global vertex ids and a symmetric adjacency bitset indexed
// by global vertex id, yielding each clique as a []int32 of global vertex
// ids (one per partition, in the order the partitions were branched on,
// fewest compatible vertices first, which is not in general partition
// order).
//
// Ported directly from original_source/src/algorithms/kpkc.cpp: at each
// depth, pick the not-yet-used partition with the fewest remaining
// compatible vertices (branch on the most constrained choice first),
// intersect the next depth's compatible-vertex sets against the chosen
// vertex's adjacency row, and prune a branch as soon as some partition
// still needed has no compatible vertices left.
func findCliques(partitions [][]int32, adjacency []*bitset.Set, yield func([]int32) bool) bool {
	k := len(partitions)
	if k == 0 {
		return yield(nil)
	}

	total := 0
	for _, p := range partitions {
		total += len(p)
	}

	// compatible[depth][partition] is the bitset (over global vertex ids)
	// of vertices in that partition still reachable at this depth.
	compatible := make([][]*bitset.Set, k+1)
	for d := 0; d <= k; d++ {
		compatible[d] = make([]*bitset.Set, k)
		for pi := range partitions {
			compatible[d][pi] = bitset.New(total)
		}
	}
	for pi, verts := range partitions {
		for _, v := range verts {
			compatible[0][pi].Set(int(v))
		}
	}

	used := make([]bool, k)
	partial := partialPool.Acquire()
	defer partialPool.Release(partial)

	var rec func(depth int) bool
	rec = func(depth int) bool {
		cur := compatible[depth]

		bestPartition := -1
		bestCount := -1
		for pi := 0; pi < k; pi++ {
			if used[pi] {
				continue
			}
			c := cur[pi].Count()
			if bestPartition == -1 || c < bestCount {
				bestCount = c
				bestPartition = pi
			}
		}

		cont := true
		cur[bestPartition].Each(func(vertex int) {
			if !cont {
				return
			}
			used[bestPartition] = true
			partial = append(partial, int32(vertex))

			if len(partial) == k {
				clique := make([]int32, len(partial))
				copy(clique, partial)
				if !yield(clique) {
					cont = false
				}
			} else {
				next := compatible[depth+1]
				for pi := 0; pi < k; pi++ {
					next[pi] = cur[pi].Copy()
				}
				for pi := 0; pi < k; pi++ {
					if used[pi] {
						continue
					}
					next[pi].And(adjacency[vertex])
				}

				feasible := 0
				for pi := 0; pi < k; pi++ {
					if !used[pi] && next[pi].Count() > 0 {
						feasible++
					}
				}
				if len(partial)+feasible == k {
					if !rec(depth + 1) {
						cont = false
					}
				}
			}

			partial = partial[:len(partial)-1]
			used[bestPartition] = false
		})
		return cont
	}

	return rec(0)
}
