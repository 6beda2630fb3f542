// Package state implements the content-addressed state store of spec §3.3 /
// §4.7 (components C/I's store half): ground states as interned atom-set
// roots plus a numeric tuple, with on-demand dense-bitset materialisation
// for hot loops.
//
// Grounded on gokando's constraint-store abstraction (pkg/minikanren):
// states here play the role its ConstraintStore plays for unification —
// an interned, copy-free value threaded through search — generalised from
// a logic-variable substitution to a ground fluent/derived atom set.
package state

import (
	"math"
	"sort"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
)

func mathFloatBits(v float64) uint64 { return math.Float64bits(v) }

// NumericPair is a (function index, value) pair; numeric_root (spec §3.3)
// interns a sorted sequence of these packed into three uint32 words per
// element via Table, so NumericPair itself is only used at the edges
// (building/reading the sorted list), never inside the slot table.
type NumericPair struct {
	Function int32
	Value    float64
}

// State is the packed, interned triple of root-slot indices plus a dense
// index assigned on first interning (spec §3.3). States never mutate after
// interning.
type State struct {
	FluentRoot  slot.Root
	DerivedRoot slot.Root
	NumericRoot slot.Root
	Index       int32
}

// Store interns states by (FluentRoot, DerivedRoot, NumericRoot); two
// states are equal iff their triple of roots matches.
type Store struct {
	slots   *slot.Table
	byKey   map[tripleKey]int32
	states  []State
	numeric map[slot.Root][]NumericPair // numeric_root -> decoded pairs, cached
}

type tripleKey struct {
	fluent, derived, numeric slot.Root
}

// NewStore returns an empty state store backed by slots.
func NewStore(slots *slot.Table) *Store {
	return &Store{
		slots:   slots,
		byKey:   make(map[tripleKey]int32),
		numeric: make(map[slot.Root][]NumericPair),
	}
}

// Intern interns the (fluentRoot, derivedRoot, numericRoot) triple,
// returning the canonical State for it (spec §8 round-trip law: the index
// returned here always matches the one the resulting State carries).
func (s *Store) Intern(fluentRoot, derivedRoot, numericRoot slot.Root) State {
	key := tripleKey{fluentRoot, derivedRoot, numericRoot}
	if idx, ok := s.byKey[key]; ok {
		return s.states[idx]
	}
	idx := int32(len(s.states))
	st := State{FluentRoot: fluentRoot, DerivedRoot: derivedRoot, NumericRoot: numericRoot, Index: idx}
	s.states = append(s.states, st)
	s.byKey[key] = idx
	return st
}

// Get returns the state previously interned with dense index idx.
func (s *Store) Get(idx int32) State { return s.states[idx] }

// Len returns how many distinct states have been interned.
func (s *Store) Len() int { return len(s.states) }

// InternAtoms builds and interns a sequence root for a sorted set of
// fluent (or derived) ground-atom indices.
func (s *Store) InternAtoms(sortedAtoms []int32) (slot.Root, error) {
	u32 := make([]uint32, len(sortedAtoms))
	for i, a := range sortedAtoms {
		u32[i] = uint32(a)
	}
	return s.slots.InternSequence(u32)
}

// InternNumeric builds and interns a sequence root for a sorted numeric
// tuple. The slot table only stores sorted uint32 sequences (spec §3.2), so
// each (function, value) pair is first encoded as three uint32 words
// (numericKey) before interning; two numeric tuples produce the same
// root iff their pair sets are equal, matching the content-addressing
// invariant spec §3.3 requires of numeric_root. Decoded values are read
// back from the side table s.numeric, keyed by the resulting root.
func (s *Store) InternNumeric(pairs []NumericPair) (slot.Root, error) {
	sorted := make([]NumericPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Function < sorted[j].Function })

	encoded := make([]uint32, 0, 3*len(sorted))
	for _, p := range sorted {
		encoded = append(encoded, numericKey(p)...)
	}
	root, err := s.slots.InternSequence(encoded)
	if err != nil {
		return slot.Root{}, err
	}
	s.numeric[root] = sorted
	return root, nil
}

// numericKey encodes a (function index, value) pair as three uint32 words
// (the function index, then the high and low halves of the value's IEEE-754
// bits) so it can travel through the slot table's uint32-sequence interning
// without loss. The slot table's delta encoding is exact modular arithmetic,
// so it round-trips correctly regardless of whether the encoded words happen
// to be monotonic; what matters for content-addressing is that InternNumeric
// always sorts pairs into the same canonical order before encoding, so equal
// pair sets always produce the same word sequence and distinct pair sets
// distinct ones.
func numericKey(p NumericPair) []uint32 {
	bits := mathFloatBits(p.Value)
	return []uint32{uint32(p.Function), uint32(bits >> 32), uint32(bits)}
}

// Numeric returns the decoded numeric tuple for a root built by
// InternNumeric.
func (s *Store) Numeric(root slot.Root) []NumericPair {
	return s.numeric[root]
}

// Atoms decodes a fluent/derived atom-set root back into a sorted []int32.
func (s *Store) Atoms(root slot.Root) []int32 {
	u32 := s.slots.Iterate(root)
	out := make([]int32, len(u32))
	for i, v := range u32 {
		out[i] = int32(v)
	}
	return out
}

// DenseState materialises a State's atom sets into bitsets for tight loops
// (binding generation, match-tree walks, axiom closure). It is scratch:
// callers must not retain it past the expansion that built it (spec §5).
type DenseState struct {
	Fluent  *bitset.Set
	Derived *bitset.Set
	Numeric map[int32]float64
}

// Dense materialises st into bitsets sized to numFluent/numDerived (the
// dense index-space sizes from ir.Pool.NumGroundAtomsOfKind).
func (s *Store) Dense(st State, numFluent, numDerived int) *DenseState {
	ds := &DenseState{
		Fluent:  bitset.New(numFluent),
		Derived: bitset.New(numDerived),
		Numeric: make(map[int32]float64),
	}
	for _, a := range s.Atoms(st.FluentRoot) {
		ds.Fluent.Set(int(a))
	}
	for _, a := range s.Atoms(st.DerivedRoot) {
		ds.Derived.Set(int(a))
	}
	for _, p := range s.Numeric(st.NumericRoot) {
		ds.Numeric[p.Function] = p.Value
	}
	return ds
}

// Pack interns ds back into a State, sharing structure with any previously
// interned state that has the same content (used by the repository after
// applying an action and re-closing axioms).
func (s *Store) Pack(ds *DenseState) (State, error) {
	fluentRoot, err := s.InternAtoms(ds.Fluent.Slice())
	if err != nil {
		return State{}, err
	}
	derivedRoot, err := s.InternAtoms(ds.Derived.Slice())
	if err != nil {
		return State{}, err
	}
	pairs := make([]NumericPair, 0, len(ds.Numeric))
	for fn, v := range ds.Numeric {
		pairs = append(pairs, NumericPair{Function: fn, Value: v})
	}
	numericRoot, err := s.InternNumeric(pairs)
	if err != nil {
		return State{}, err
	}
	return s.Intern(fluentRoot, derivedRoot, numericRoot), nil
}
