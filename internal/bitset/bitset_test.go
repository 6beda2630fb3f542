package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetClearTest(t *testing.T) {
	s := New(130)
	require.False(t, s.Test(5))

	s.Set(5)
	s.Set(64)
	s.Set(129)
	require.True(t, s.Test(5))
	require.True(t, s.Test(64))
	require.True(t, s.Test(129))
	require.Equal(t, 3, s.Count())

	s.Clear(64)
	require.False(t, s.Test(64))
	require.Equal(t, 2, s.Count())
}

func TestGrowPreservesBits(t *testing.T) {
	s := New(10)
	s.Set(3)
	s.Set(9)

	s.Grow(200)
	require.Equal(t, 200, s.Len())
	require.True(t, s.Test(3))
	require.True(t, s.Test(9))

	s.Set(199)
	require.True(t, s.Test(199))

	// Growing to a smaller size is a no-op.
	s.Grow(50)
	require.Equal(t, 200, s.Len())
}

func TestOrAndAndNot(t *testing.T) {
	a := New(64)
	a.Set(1)
	a.Set(2)
	b := New(64)
	b.Set(2)
	b.Set(3)

	union := a.Copy()
	union.Or(b)
	require.Equal(t, []int32{1, 2, 3}, union.Slice())

	inter := a.Copy()
	inter.And(b)
	require.Equal(t, []int32{2}, inter.Slice())

	diff := a.Copy()
	diff.AndNot(b)
	require.Equal(t, []int32{1}, diff.Slice())
}

func TestEqual(t *testing.T) {
	a := New(64)
	a.Set(5)
	b := New(64)
	b.Set(5)
	require.True(t, a.Equal(b))

	b.Set(6)
	require.False(t, a.Equal(b))
}

func TestResetClearsWithoutReallocating(t *testing.T) {
	s := New(64)
	s.Set(1)
	s.Set(2)
	require.Equal(t, 2, s.Count())

	s.Reset()
	require.Equal(t, 0, s.Count())
	require.Equal(t, 64, s.Len())
}

func TestFromSliceAndSlice(t *testing.T) {
	s := FromSlice([]int32{3, 1, 4, 1, 5}, 10)
	require.Equal(t, []int32{1, 3, 4, 5}, s.Slice())
}

func TestEach(t *testing.T) {
	s := New(64)
	s.Set(0)
	s.Set(63)
	s.Set(40)

	var seen []int
	s.Each(func(i int) { seen = append(seen, i) })
	require.Equal(t, []int{0, 40, 63}, seen)
}
