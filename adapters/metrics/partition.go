package metrics

import (
	"ethica/domain/core"
)

// Partition splits sample indexes by protected-attribute value. Groups come
// back in first-appearance order, which is deterministic for a given input.
// Every index lands in exactly one group; the group sizes sum to len(values).
func Partition(values []string) ([]string, map[string][]int, error) {
	if len(values) == 0 {
		return nil, nil, core.ErrEmptyDataset
	}

	groups := make([]string, 0, 4)
	indexes := make(map[string][]int)

	for i, v := range values {
		if _, seen := indexes[v]; !seen {
			groups = append(groups, v)
		}
		indexes[v] = append(indexes[v], i)
	}

	return groups, indexes, nil
}
