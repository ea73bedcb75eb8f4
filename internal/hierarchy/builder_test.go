package hierarchy

import (
	"testing"

	"github.com/arkilian/schedread/internal/row"
)

func bar(id, expandedTask, order int, name string) row.Row {
	r := row.NewMapRow("BAR")
	r.Set("BARID", id)
	if expandedTask != 0 {
		r.Set("EXPANDED_TASK", expandedTask)
	}
	r.Set("NATURAL_ORDER", order)
	r.Set("NAME", name)
	return r
}

func expanded(id, barID int) row.Row {
	r := row.NewMapRow("EXPANDED_TASK")
	r.Set("EXPANDED_TASKID", id)
	r.Set("BAR", barID)
	return r
}

func task(id, barID, order int, name string) row.Row {
	r := row.NewMapRow("TASK")
	r.Set("TASKID", id)
	r.Set("BAR", barID)
	r.Set("NATURAL_ORDER", order)
	r.Set("NAME", name)
	return r
}

func milestone(id, barID, order int, name string) row.Row {
	r := row.NewMapRow("MILESTONE")
	r.Set("MILESTONEID", id)
	r.Set("BAR", barID)
	r.Set("NATURAL_ORDER", order)
	r.Set("NAME", name)
	return r
}

type shape struct {
	name     string
	kind     Kind
	id       int
	level    int
	children []shape
}

func assertTree(t *testing.T, got []*Node, want []shape) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d nodes, got %d (%v)", len(want), len(got), names(got))
	}
	for i, w := range want {
		n := got[i]
		if n.Name != w.name || n.Kind != w.kind || n.ID != w.id || n.OutlineLevel != w.level {
			t.Errorf("node %d = {%q %s id=%d level=%d}, want {%q %s id=%d level=%d}",
				i, n.Name, n.Kind, n.ID, n.OutlineLevel, w.name, w.kind, w.id, w.level)
		}
		assertTree(t, n.Children, w.children)
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestNumber_PreOrder(t *testing.T) {
	t1 := &Node{Name: "T1", Kind: KindTask}
	b := &Node{Name: "B", Kind: KindBar, Children: []*Node{t1}}
	a := &Node{Name: "A", Kind: KindBar, Children: []*Node{b}}

	Number([]*Node{a})

	assertTree(t, []*Node{a}, []shape{
		{"A", KindBar, 1, 1, []shape{
			{"B", KindBar, 2, 2, []shape{
				{"T1", KindTask, 3, 3, nil},
			}},
		}},
	})
}

func TestBuild_NestedBarsThroughExpandedTasks(t *testing.T) {
	// A is the parent of B through expanded task 100. A second root keeps
	// the root set from being unwrapped and a second leaf keeps B from
	// collapsing.
	res := Build(Input{
		Bars: []row.Row{
			bar(2, 100, 1, "B"),
			bar(1, 0, 1, "A"),
			bar(3, 0, 2, "Other"),
		},
		ExpandedTasks: []row.Row{expanded(100, 1)},
		Tasks: []row.Row{
			task(10, 2, 1, "T1"),
			task(11, 2, 2, "T2"),
			task(12, 3, 1, "T3"),
			task(13, 3, 2, "T4"),
		},
	})

	assertTree(t, res.Roots, []shape{
		{"A", KindBar, 1, 1, []shape{
			{"B", KindBar, 2, 2, []shape{
				{"T1", KindTask, 3, 3, nil},
				{"T2", KindTask, 4, 3, nil},
			}},
		}},
		{"Other", KindBar, 5, 1, []shape{
			{"T3", KindTask, 6, 2, nil},
			{"T4", KindTask, 7, 2, nil},
		}},
	})

	if got := res.Roots[0].Row.Int("_EXPANDED_TASKID"); got != 100 {
		t.Errorf("expanded task columns should merge into the owning bar, got %d", got)
	}
	if res.Unresolved != 0 {
		t.Errorf("Unresolved = %d, want 0", res.Unresolved)
	}
}

func TestBuild_SingleChildBarCollapses(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Root1"),
			bar(2, 0, 2, "Root2"),
			bar(3, 100, 1, "Wrapper"),
		},
		ExpandedTasks: []row.Row{expanded(100, 1)},
		Tasks: []row.Row{
			task(10, 3, 1, ""),
			task(11, 1, 2, "Direct"),
			task(12, 2, 1, "X"),
			task(13, 2, 2, "Y"),
		},
	})

	assertTree(t, res.Roots, []shape{
		{"Root1", KindBar, 1, 1, []shape{
			{"Wrapper", KindTask, 2, 2, nil},
			{"Direct", KindTask, 3, 2, nil},
		}},
		{"Root2", KindBar, 4, 1, []shape{
			{"X", KindTask, 5, 2, nil},
			{"Y", KindTask, 6, 2, nil},
		}},
	})
	if res.Roots[0].Children[0].UniqueID != 10 {
		t.Errorf("collapsed node should be the leaf, got unique id %d", res.Roots[0].Children[0].UniqueID)
	}
}

func TestBuild_CollapsedLeafKeepsOwnName(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Root1"),
			bar(2, 0, 2, "Root2"),
		},
		Tasks: []row.Row{
			task(10, 1, 1, "Named"),
			task(12, 2, 1, "X"),
			task(13, 2, 2, "Y"),
		},
	})
	if res.Roots[0].Name != "Named" || res.Roots[0].Kind != KindTask {
		t.Errorf("got %q (%s), want leaf named Named", res.Roots[0].Name, res.Roots[0].Kind)
	}
}

func TestBuild_DisplacedItemsPrunedAndSingleRootUnwrapped(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Project"),
			bar(2, 0, 2, "Displaced Items"),
			bar(3, 0, 3, "  "),
		},
		Tasks: []row.Row{
			task(10, 1, 1, "Design"),
			task(11, 1, 2, "Build"),
			task(20, 2, 1, "Lost"),
			task(30, 3, 1, "Blank"),
		},
		Milestones: []row.Row{
			milestone(40, 1, 3, "Handover"),
		},
	})

	assertTree(t, res.Roots, []shape{
		{"Design", KindTask, 1, 1, nil},
		{"Build", KindTask, 2, 1, nil},
		{"Handover", KindMilestone, 3, 1, nil},
	})
}

func TestBuild_EmptyBarsDropped(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Root1"),
			bar(2, 0, 2, "Root2"),
			bar(3, 100, 1, "Empty"),
		},
		ExpandedTasks: []row.Row{expanded(100, 1)},
		Tasks: []row.Row{
			task(10, 1, 2, "A"),
			task(11, 2, 1, "B"),
			task(12, 2, 2, "C"),
		},
	})

	assertTree(t, res.Roots, []shape{
		{"Root1", KindBar, 1, 1, []shape{
			{"A", KindTask, 2, 2, nil},
		}},
		{"Root2", KindBar, 3, 1, []shape{
			{"B", KindTask, 4, 2, nil},
			{"C", KindTask, 5, 2, nil},
		}},
	})
}

func TestBuild_LeafSortAndNameInheritance(t *testing.T) {
	unordered := row.NewMapRow("TASK")
	unordered.Set("TASKID", 9)
	unordered.Set("BAR", 2)
	unordered.Set("NAME", "NoOrder")

	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Root1"),
			bar(2, 0, 2, "Root2"),
		},
		Tasks: []row.Row{
			task(10, 1, 1, "R1a"),
			task(11, 1, 2, "R1b"),
			task(12, 2, 5, ""),
			task(13, 2, 3, "Third"),
			unordered,
		},
	})

	assertTree(t, res.Roots, []shape{
		{"Root1", KindBar, 1, 1, []shape{
			{"R1a", KindTask, 2, 2, nil},
			{"R1b", KindTask, 3, 2, nil},
		}},
		{"Root2", KindBar, 4, 1, []shape{
			{"NoOrder", KindTask, 5, 2, nil},
			{"Third", KindTask, 6, 2, nil},
			{"Root2", KindTask, 7, 2, nil},
		}},
	})
}

func TestBuild_UnresolvedReferencesTolerated(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 0, 1, "Root1"),
			bar(2, 0, 2, "Root2"),
		},
		ExpandedTasks: []row.Row{expanded(100, 99)},
		Tasks: []row.Row{
			task(10, 1, 1, "A"),
			task(11, 1, 2, "B"),
			task(12, 2, 1, "C"),
			task(13, 2, 2, "D"),
			task(14, 77, 1, "Orphan"),
		},
	})

	if res.Unresolved != 2 {
		t.Errorf("Unresolved = %d, want 2", res.Unresolved)
	}
	count := 0
	Walk(res.Roots, func(n *Node) { count++ })
	if count != 6 {
		t.Errorf("expected 6 nodes, got %d", count)
	}
}

func TestBuild_SelfReferencingBarIsRoot(t *testing.T) {
	res := Build(Input{
		Bars: []row.Row{
			bar(1, 100, 1, "Self"),
			bar(2, 0, 2, "Other"),
		},
		ExpandedTasks: []row.Row{expanded(100, 1)},
		Tasks: []row.Row{
			task(10, 1, 1, "A"),
			task(11, 1, 2, "B"),
			task(12, 2, 1, "C"),
			task(13, 2, 2, "D"),
		},
	})
	// Bars without an expanded task sort first.
	if len(res.Roots) != 2 || res.Roots[0].Name != "Other" || res.Roots[1].Name != "Self" {
		t.Errorf("unexpected roots %v", names(res.Roots))
	}
}

func TestBuild_SingleRootChainReducesToLeaf(t *testing.T) {
	// A is the only root so it is unwrapped, then B collapses onto its
	// only child.
	res := Build(Input{
		Bars:          []row.Row{bar(1, 0, 1, "A"), bar(2, 100, 1, "B")},
		ExpandedTasks: []row.Row{expanded(100, 1)},
		Tasks:         []row.Row{task(10, 2, 1, "T1")},
	})

	assertTree(t, res.Roots, []shape{
		{"T1", KindTask, 1, 1, nil},
	})
}
