package skiplist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIteratorEmpty(t *testing.T) {
	s := New()
	it := s.Begin()
	require.False(t, it.Valid())
	require.True(t, it.Equal(s.End()))
}

func TestIteratorOrderAndElements(t *testing.T) {
	s := New()
	want := map[int64]int64{3: 30, 1: 10, 2: 20}
	for k, v := range want {
		require.True(t, s.Insert(k, v))
	}

	var gotKeys []int64
	it := s.Begin()
	for it.Valid() {
		gotKeys = append(gotKeys, it.Key())
		require.Equal(t, want[it.Key()], it.Element())
		it.Next()
	}
	require.Equal(t, []int64{1, 2, 3}, gotKeys)
	require.True(t, it.Equal(s.End()))
}

func TestIteratorSkipsMarkedNode(t *testing.T) {
	s := New()
	require.True(t, s.Insert(1, 1))
	require.True(t, s.Insert(2, 2))
	require.True(t, s.Insert(3, 3))

	_, ok := s.Remove(2)
	require.True(t, ok)

	require.Equal(t, []int64{1, 3}, collect(t, s))
}

func TestBeginEndEqualityOnEmptyAndSingleton(t *testing.T) {
	s := New()
	require.True(t, s.Begin().Equal(s.End()))

	require.True(t, s.Insert(1, 1))
	require.False(t, s.Begin().Equal(s.End()))
}
