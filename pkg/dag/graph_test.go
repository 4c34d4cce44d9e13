package dag

import "testing"

func TestActivityGraphNodes(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddActivity("A")
	ag.AddActivity("B")
	ag.AddActivity("A") // duplicate is a no-op

	nodes := ag.Nodes()
	if len(nodes) != 2 || nodes[0] != "A" || nodes[1] != "B" {
		t.Errorf("nodes = %v, want [A B] in insertion order", nodes)
	}
}

func TestActivityGraphSelfLoopDropped(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddActivity("A")
	ag.AddDependency("A", "A")

	if len(ag.Edges()) != 0 {
		t.Errorf("self-loop was not dropped: %v", ag.Edges())
	}
}

func TestActivityGraphDuplicateEdgeCollapses(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddDependency("A", "B")
	ag.AddDependency("A", "B")

	if len(ag.Edges()) != 1 {
		t.Errorf("duplicate edge not collapsed: %v", ag.Edges())
	}
}

func TestActivityGraphImplicitNodes(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddDependency("External", "A")

	if !ag.HasActivity("External") || !ag.HasActivity("A") {
		t.Errorf("edge endpoints not added as nodes: %v", ag.Nodes())
	}
	if ag.InDegree("A") != 1 || ag.InDegree("External") != 0 {
		t.Errorf("in-degrees wrong: A=%d External=%d", ag.InDegree("A"), ag.InDegree("External"))
	}
}

func TestActivityGraphSuccessors(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddActivity("A")
	ag.AddActivity("B")
	ag.AddActivity("C")
	ag.AddDependency("A", "C")
	ag.AddDependency("A", "B")

	succ := ag.Successors("A")
	if len(succ) != 2 || succ[0] != "B" || succ[1] != "C" {
		t.Errorf("successors = %v, want insertion order [B C]", succ)
	}
}
