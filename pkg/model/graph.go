package model

// GraphEdge is a directed dependency between two activities of the
// same pipeline, upstream first.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PipelineGraph is the per-pipeline dependency graph handed to
// renderers: the node set, the resolved edges, and either a
// topological order or a cycle flag. A cyclic graph is an advisory
// condition, not an error; Order is empty in that case.
type PipelineGraph struct {
	Pipeline string      `json:"pipeline"`
	Nodes    []string    `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Order    []string    `json:"order,omitempty"`
	Cyclic   bool        `json:"cyclic"`
}
