package slot

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternSlotIdempotent(t *testing.T) {
	tbl := New()
	a, err := tbl.InternSlot(1, 2)
	require.NoError(t, err)
	b, err := tbl.InternSlot(1, 2)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := tbl.InternSlot(2, 1)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestInternSequenceRoundTrip(t *testing.T) {
	tbl := New()
	seqs := [][]uint32{
		{},
		{7},
		{1, 2, 3},
		{0, 5, 9, 100, 101, 4000},
		{10, 20, 30, 40, 50, 60, 70, 80, 90},
	}
	for _, s := range seqs {
		root, err := tbl.InternSequence(s)
		require.NoError(t, err)
		got := tbl.Iterate(root)
		require.Equal(t, s, got)

		for k := range s {
			v, err := tbl.Lookup(root, k)
			require.NoError(t, err)
			require.Equal(t, s[k], v)
		}
		_, err = tbl.Lookup(root, len(s))
		require.Error(t, err)
	}
}

func TestInternSequenceIdenticalForEqualMultisets(t *testing.T) {
	tbl := New()
	s := []uint32{3, 1, 9, 4, 1, 5}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	t2 := make([]uint32, len(s))
	copy(t2, s)

	r1, err := tbl.InternSequence(s)
	require.NoError(t, err)
	r2, err := tbl.InternSequence(t2)
	require.NoError(t, err)
	require.Equal(t, r1, r2)

	other := []uint32{1, 2, 3}
	r3, err := tbl.InternSequence(other)
	require.NoError(t, err)
	require.NotEqual(t, r1, r3)
}

func TestInternSequenceInsertionOrderIndependent(t *testing.T) {
	// Build the same sequence via two different tables, one of which
	// interns unrelated slots first. Slot indices are assigned in each
	// table's own append order, so the two roots' TreeRoot values differ;
	// what must not depend on insertion order is the content each root
	// decodes to.
	seq := []uint32{2, 4, 6, 8, 10}

	t1 := New()
	r1, err := t1.InternSequence(seq)
	require.NoError(t, err)

	t2 := New()
	_, _ = t2.InternSlot(99, 100) // unrelated noise first
	_, _ = t2.InternSlot(1, 2)
	r2, err := t2.InternSequence(seq)
	require.NoError(t, err)

	require.Equal(t, t1.Iterate(r1), t2.Iterate(r2))
}
