package definition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CycleError reports nodes that could not be ordered.
type CycleError struct {
	Nodes []int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected among %d nodes", len(e.Nodes))
}

// topoSort returns indices in dependency order.
//
// depsFn(i) yields indices that must come before i. The result is
// deterministic: when multiple nodes are available, the smallest index is
// picked. If a cycle exists, a *CycleError lists the nodes left unordered.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		var left []int

		for i := range n {
			if indeg[i] > 0 {
				left = append(left, i)
			}
		}

		return nil, &CycleError{Nodes: left}
	}

	return order, nil
}

// Order returns mixin indices so that every parent comes before its
// children. Unknown parent names are ignored.
func Order(f *File) ([]int, error) {
	index := make(map[string]int, len(f.Mixins))
	for i := len(f.Mixins) - 1; i >= 0; i-- {
		index[f.Mixins[i].Name] = i
	}

	order, err := topoSort(len(f.Mixins), func(i int) []int {
		var deps []int

		for _, p := range f.Mixins[i].Parents {
			if j, ok := index[p]; ok {
				deps = append(deps, j)
			}
		}

		return deps
	})

	var cycle *CycleError
	if errors.As(err, &cycle) {
		names := make([]string, len(cycle.Nodes))
		for k, i := range cycle.Nodes {
			names[k] = f.Mixins[i].Name
		}

		return nil, fmt.Errorf("%w: %s", err, strings.Join(names, ", "))
	}

	return order, err
}
