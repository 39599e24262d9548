package mapfn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupBy(t *testing.T) {
	keys, groups := GroupBy([]int{3, 1, 4, 1, 5, 9, 2, 6}, func(v int) bool { return v%2 == 0 })

	require.Equal(t, []bool{false, true}, keys)
	require.Equal(t, []int{3, 1, 1, 5, 9}, groups[false])
	require.Equal(t, []int{4, 2, 6}, groups[true])
}

func TestConvertAndFilter(t *testing.T) {
	doubled := ConvertSlice([]int{1, 2, 3}, func(v int) int { return v * 2 })
	require.Equal(t, []int{2, 4, 6}, doubled)

	require.Empty(t, FilterSlice([]int{1, 3}, func(v int) bool { return v > 5 }))
}
