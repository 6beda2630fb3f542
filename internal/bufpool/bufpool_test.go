package bufpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireReturnsZeroLengthSlice(t *testing.T) {
	p := NewInt32Pool(4)
	s := p.Acquire()
	require.Len(t, s, 0)
	require.GreaterOrEqual(t, cap(s), 4)
}

func TestReleaseRecyclesBackingArray(t *testing.T) {
	p := NewInt32Pool(4)
	s := p.Acquire()
	s = append(s, 1, 2, 3)
	p.Release(s)

	s2 := p.Acquire()
	require.Len(t, s2, 0)
	require.GreaterOrEqual(t, cap(s2), 3)
}

func TestAcquireBeyondPoolCapacityStillGrows(t *testing.T) {
	p := NewInt32Pool(2)
	s := p.Acquire()
	for i := int32(0); i < 10; i++ {
		s = append(s, i)
	}
	require.Len(t, s, 10)
	p.Release(s)
}
