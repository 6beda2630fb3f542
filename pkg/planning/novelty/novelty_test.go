package novelty

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestNovelFirstStateIsAlwaysNovel(t *testing.T) {
	tbl, err := New(10, 2)
	require.NoError(t, err)
	require.True(t, tbl.TestNovel([]int32{1, 2, 3}))
}

func TestTestNovelSameAtomsNotNovelAgain(t *testing.T) {
	tbl, err := New(10, 2)
	require.NoError(t, err)
	require.True(t, tbl.TestNovel([]int32{1, 2, 3}))
	require.False(t, tbl.TestNovel([]int32{1, 2, 3}))
}

func TestTestNovelNewPairStillNovel(t *testing.T) {
	tbl, err := New(10, 2)
	require.NoError(t, err)
	require.True(t, tbl.TestNovel([]int32{1, 2}))
	// {1,2} already seen, but {1,4} and {2,4} are new pairs.
	require.True(t, tbl.TestNovel([]int32{1, 2, 4}))
	require.False(t, tbl.TestNovel([]int32{1, 2, 4}))
}

func TestTestNovelTooFewAtomsNeverNovel(t *testing.T) {
	tbl, err := New(10, 3)
	require.NoError(t, err)
	require.False(t, tbl.TestNovel([]int32{1, 2}))
}

func TestResetClearsTable(t *testing.T) {
	tbl, err := New(10, 1)
	require.NoError(t, err)
	require.True(t, tbl.TestNovel([]int32{5}))
	require.False(t, tbl.TestNovel([]int32{5}))
	tbl.Reset()
	require.True(t, tbl.TestNovel([]int32{5}))
}

func TestNewRejectsOverlyLargeTable(t *testing.T) {
	_, err := New(1_000_000, 5)
	require.ErrorIs(t, err, ErrTableTooLarge)
}
