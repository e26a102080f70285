package framegraph

// topoSort orders nodes over their resource edges. For each resource:
//   - pure writers run in declaration order, before every node that reads it
//   - read-write nodes run in declaration order, after the pure writers and
//     before the pure readers
//
// Among nodes that are ready at the same time the one declared first wins,
// so the order is deterministic.
func topoSort(nodes []RenderNode, uses [][]ResourceUse) ([]int, error) {
	n := len(nodes)
	succ := make([][]int, n)
	indeg := make([]int, n)
	linked := make(map[[2]int]bool)
	link := func(from, to int) {
		if from == to || linked[[2]int{from, to}] {
			return
		}
		linked[[2]int{from, to}] = true
		succ[from] = append(succ[from], to)
		indeg[to]++
	}

	type users struct {
		writers   []int
		modifiers []int
		readers   []int
	}
	byID := make(map[ResourceID]*users)
	var ids []ResourceID
	for i := range nodes {
		access := make(map[ResourceID]Access)
		var own []ResourceID
		for _, u := range uses[i] {
			if _, ok := access[u.Spec.ID]; !ok {
				own = append(own, u.Spec.ID)
			}
			access[u.Spec.ID] |= u.Access
		}
		for _, id := range own {
			us, ok := byID[id]
			if !ok {
				us = &users{}
				byID[id] = us
				ids = append(ids, id)
			}
			switch a := access[id]; {
			case a.Reads() && a.Writes():
				us.modifiers = append(us.modifiers, i)
			case a.Writes():
				us.writers = append(us.writers, i)
			default:
				us.readers = append(us.readers, i)
			}
		}
	}

	for _, id := range ids {
		us := byID[id]
		for k := 1; k < len(us.writers); k++ {
			link(us.writers[k-1], us.writers[k])
		}
		for k := 1; k < len(us.modifiers); k++ {
			link(us.modifiers[k-1], us.modifiers[k])
		}
		for _, w := range us.writers {
			for _, m := range us.modifiers {
				link(w, m)
			}
			for _, r := range us.readers {
				link(w, r)
			}
		}
		for _, m := range us.modifiers {
			for _, r := range us.readers {
				link(m, r)
			}
		}
	}

	order := make([]int, 0, n)
	done := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i := 0; i < n; i++ {
				if !done[i] {
					stuck = append(stuck, nodes[i].Name())
				}
			}
			return nil, &CycleError{Nodes: stuck}
		}
		done[next] = true
		order = append(order, next)
		for _, s := range succ[next] {
			indeg[s]--
		}
	}
	return order, nil
}
