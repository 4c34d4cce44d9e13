package dag

import "testing"

func TestTopoSortChain(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddActivity("A")
	ag.AddActivity("B")
	ag.AddActivity("C")
	ag.AddDependency("A", "B")
	ag.AddDependency("B", "C")

	order, ok := TopoSort(ag)
	if !ok {
		t.Fatal("chain reported as cyclic")
	}
	want := []string{"A", "B", "C"}
	for i, n := range want {
		if order[i] != n {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopoSortCycle(t *testing.T) {
	ag := NewActivityGraph()
	ag.AddDependency("A", "B")
	ag.AddDependency("B", "C")
	ag.AddDependency("C", "A")

	order, ok := TopoSort(ag)
	if ok {
		t.Fatalf("cycle not reported, got order %v", order)
	}
	if order != nil {
		t.Errorf("cyclic graph must produce no order, got %v", order)
	}
}

// Independent roots come out in insertion order, making the result
// reproducible run to run.
func TestTopoSortDeterministicTieBreak(t *testing.T) {
	build := func() *ActivityGraph {
		ag := NewActivityGraph()
		ag.AddActivity("Z")
		ag.AddActivity("M")
		ag.AddActivity("A")
		ag.AddDependency("Z", "A")
		return ag
	}

	first, ok := TopoSort(build())
	if !ok {
		t.Fatal("unexpected cycle")
	}
	if first[0] != "Z" || first[1] != "M" || first[2] != "A" {
		t.Errorf("order = %v, want insertion-order tie-break [Z M A]", first)
	}
	for i := 0; i < 10; i++ {
		again, _ := TopoSort(build())
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("order not reproducible: %v vs %v", first, again)
			}
		}
	}
}

func TestTopoSortEmptyGraph(t *testing.T) {
	order, ok := TopoSort(NewActivityGraph())
	if !ok || len(order) != 0 {
		t.Errorf("empty graph: order=%v ok=%v", order, ok)
	}
}
