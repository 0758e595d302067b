package hatim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func members(n int) []string {
	result := make([]string, n)
	for i := range result {
		result[i] = fmt.Sprintf("user-%d", i+1)
	}
	return result
}

func TestPartitionThreeMembers(t *testing.T) {
	allocations, err := Partition(604, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, allocations, 3)

	expected := []struct {
		user        string
		first, last int
	}{
		{"A", 1, 202},
		{"B", 203, 403},
		{"C", 404, 604},
	}
	for i, want := range expected {
		got := allocations[i]
		require.Equal(t, want.user, got.UserID)
		require.Equal(t, want.first, got.Pages[0])
		require.Equal(t, want.last, got.Pages[len(got.Pages)-1])
	}
	require.Len(t, allocations[0].Pages, 202)
	require.Len(t, allocations[1].Pages, 201)
	require.Len(t, allocations[2].Pages, 201)
}

func TestPartitionCoverage(t *testing.T) {
	for _, total := range []int{1, 2, 7, 100, 603, 604} {
		for _, n := range []int{1, 2, 3, 5, 7, 13, 40} {
			if n > total {
				continue
			}
			t.Run(fmt.Sprintf("total=%d/n=%d", total, n), func(t *testing.T) {
				allocations, err := Partition(total, members(n))
				require.NoError(t, err)

				base := total / n
				larger := 0
				next := 1
				for _, allocation := range allocations {
					size := len(allocation.Pages)
					require.True(t, size == base || size == base+1, "block size %d", size)
					require.NotZero(t, size)
					if size == base+1 {
						larger++
					}
					for _, page := range allocation.Pages {
						require.Equal(t, next, page, "pages must be contiguous and disjoint")
						next++
					}
				}
				require.Equal(t, total+1, next, "union must be exactly 1..total")
				require.Equal(t, total%n, larger)
			})
		}
	}
}

func TestPartitionMoreMembersThanPages(t *testing.T) {
	allocations, err := Partition(2, members(4))
	require.NoError(t, err)
	require.Equal(t, []int{1}, allocations[0].Pages)
	require.Equal(t, []int{2}, allocations[1].Pages)
	require.NotNil(t, allocations[2].Pages)
	require.Empty(t, allocations[2].Pages)
	require.Empty(t, allocations[3].Pages)
}

func TestPartitionRejectsInvalidInput(t *testing.T) {
	_, err := Partition(0, members(1))
	require.ErrorIs(t, err, ErrInvalidTotalPages)

	_, err = Partition(604, nil)
	require.ErrorIs(t, err, ErrNoMembers)

	_, err = Partition(604, []string{"A", "B", "A"})
	require.ErrorIs(t, err, ErrDuplicateMember)

	_, err = Partition(604, []string{"A", " "})
	require.ErrorIs(t, err, ErrNoMembers)
}
