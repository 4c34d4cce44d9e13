package dag

// TopoSort runs Kahn's algorithm over the graph. Zero-in-degree
// candidates are queued in node insertion order, so the returned order
// is reproducible for identical input. The second result is false when
// the graph contains a cycle; the order is nil in that case. A cycle
// is an advisory condition for the caller, never an error.
func TopoSort(ag *ActivityGraph) ([]string, bool) {
	indeg := make(map[string]int, ag.Len())
	var queue []string
	for _, name := range ag.Nodes() {
		indeg[name] = ag.InDegree(name)
		if indeg[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, ag.Len())
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		for _, succ := range ag.Successors(name) {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != ag.Len() {
		return nil, false
	}
	return order, true
}
