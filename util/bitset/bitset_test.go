package bitset_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/util/bitset"
)

func TestBitset(t *testing.T) {
	t.Run("set bit", func(t *testing.T) {
		set := bitset.New(12)
		require.True(t, set.Empty())
		set.SetBit(24)
		require.True(t, set.HasBit(24))
		require.False(t, set.HasBit(25))
		require.False(t, set.Empty())
	})

	t.Run("indexes wrap", func(t *testing.T) {
		set := bitset.New(2)
		set.SetBit(17)
		require.True(t, set.HasBit(1))
		require.Equal(t, 16, set.Bits())
	})

	t.Run("high bits are reachable", func(t *testing.T) {
		set := bitset.New(4)
		set.SetBit(31)
		require.Equal(t, byte(0x80), set[3])
	})

	t.Run("contains", func(t *testing.T) {
		set1 := bitset.New(12)
		set1.SetBit(24)
		set1.SetBit(25)
		set1.SetBit(26)
		set1.SetBit(27)

		set2 := bitset.New(12)
		set2.SetBit(24)
		set2.SetBit(25)

		require.True(t, set1.Contains(set2))
		require.False(t, set2.Contains(set1))
	})

	t.Run("union", func(t *testing.T) {
		set1 := bitset.New(4)
		set1.SetBit(1)
		set2 := bitset.New(4)
		set2.SetBit(30)
		set1.Union(set2)
		require.True(t, set1.HasBit(1))
		require.True(t, set1.HasBit(30))
	})
}
