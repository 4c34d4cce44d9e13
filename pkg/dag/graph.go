package dag

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

// ActivityGraph is the dependency graph of one pipeline's activities.
// It wraps a gonum directed graph and keeps name↔id maps plus the
// node insertion order; that order is the documented tie-break of the
// topological pass, so results are stable across runs.
type ActivityGraph struct {
	graph  *simple.DirectedGraph
	ids    map[string]int64
	names  map[int64]string
	order  []string
	edges  []model.GraphEdge
	nextID int64
}

// NewActivityGraph creates an empty graph.
func NewActivityGraph() *ActivityGraph {
	return &ActivityGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
}

// AddActivity adds a node; adding an existing name is a no-op.
func (ag *ActivityGraph) AddActivity(name string) {
	if _, exists := ag.ids[name]; exists {
		return
	}
	ag.ids[name] = ag.nextID
	ag.names[ag.nextID] = name
	ag.order = append(ag.order, name)
	ag.graph.AddNode(simple.Node(ag.nextID))
	ag.nextID++
}

// HasActivity reports whether name is a node of the graph.
func (ag *ActivityGraph) HasActivity(name string) bool {
	_, ok := ag.ids[name]
	return ok
}

// AddDependency adds the edge from → to, creating missing nodes.
// Self-loops are rejected here, before the graph ever sees them, and
// duplicate edges collapse to one.
func (ag *ActivityGraph) AddDependency(from, to string) {
	if from == to {
		return
	}
	ag.AddActivity(from)
	ag.AddActivity(to)

	fromID, toID := ag.ids[from], ag.ids[to]
	if ag.graph.HasEdgeFromTo(fromID, toID) {
		return
	}
	ag.graph.SetEdge(ag.graph.NewEdge(ag.graph.Node(fromID), ag.graph.Node(toID)))
	ag.edges = append(ag.edges, model.GraphEdge{From: from, To: to})
}

// Nodes returns all node names in insertion order.
func (ag *ActivityGraph) Nodes() []string {
	out := make([]string, len(ag.order))
	copy(out, ag.order)
	return out
}

// Edges returns the edges in insertion order.
func (ag *ActivityGraph) Edges() []model.GraphEdge {
	out := make([]model.GraphEdge, len(ag.edges))
	copy(out, ag.edges)
	return out
}

// InDegree returns the number of incoming edges of a node.
func (ag *ActivityGraph) InDegree(name string) int {
	id, ok := ag.ids[name]
	if !ok {
		return 0
	}
	return ag.graph.To(id).Len()
}

// Successors returns the downstream neighbors of a node, ordered by
// node insertion.
func (ag *ActivityGraph) Successors(name string) []string {
	id, ok := ag.ids[name]
	if !ok {
		return nil
	}
	var succIDs []int64
	iter := ag.graph.From(id)
	for iter.Next() {
		succIDs = append(succIDs, iter.Node().ID())
	}
	sort.Slice(succIDs, func(i, j int) bool { return succIDs[i] < succIDs[j] })

	out := make([]string, len(succIDs))
	for i, sid := range succIDs {
		out[i] = ag.names[sid]
	}
	return out
}

// Len returns the node count.
func (ag *ActivityGraph) Len() int {
	return len(ag.order)
}
