package hatim

import "strings"

type Allocation struct {
	UserID string
	Pages  []int
}

// Partition splits pages 1..totalPages into contiguous ascending blocks, one
// per member in the given order. The first totalPages%len(members) members
// get one extra page. With more members than pages the trailing members get
// empty blocks.
func Partition(totalPages int, members []string) ([]Allocation, error) {
	if totalPages < 1 {
		return nil, ErrInvalidTotalPages
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		if strings.TrimSpace(member) == "" {
			return nil, ErrNoMembers
		}
		if _, ok := seen[member]; ok {
			return nil, ErrDuplicateMember
		}
		seen[member] = struct{}{}
	}

	base := totalPages / len(members)
	remainder := totalPages % len(members)

	allocations := make([]Allocation, 0, len(members))
	next := 1
	for i, member := range members {
		size := base
		if i < remainder {
			size++
		}

		pages := make([]int, size)
		for j := range pages {
			pages[j] = next + j
		}
		next += size

		allocations = append(allocations, Allocation{UserID: member, Pages: pages})
	}

	return allocations, nil
}
