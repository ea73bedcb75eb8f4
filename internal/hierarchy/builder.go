// Package hierarchy rebuilds the task tree from flat bar, expanded-task, task
// and milestone rows.
//
// The source tool stores no explicit parent pointers between activities.
// Bars own tasks and milestones through a BAR foreign key, and bars nest
// under other bars through the expanded task attached to the parent bar.
// The builder indexes every row first, resolves parents by arena index, then
// materializes the tree applying the tool's display heuristics.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
)

// DisplacedItems is the name the source tool gives a root bar that collects
// activities removed from the plan.
const DisplacedItems = "Displaced Items"

// Kind is the type of a tree node.
type Kind int

const (
	KindBar Kind = iota
	KindTask
	KindMilestone
)

func (k Kind) String() string {
	switch k {
	case KindBar:
		return "bar"
	case KindTask:
		return "task"
	default:
		return "milestone"
	}
}

// Node is one node of the materialized tree.
type Node struct {
	Kind Kind

	// Row is the source row. For bars it carries the merged expanded-task
	// columns under schema.MergePrefix.
	Row row.Row

	// UniqueID is the source record id of the row.
	UniqueID int

	Name string

	// ID is the 1-based pre-order position; OutlineLevel is 1 for roots.
	ID           int
	OutlineLevel int

	Children []*Node
}

// Input carries the rows the tree is built from.
type Input struct {
	Bars          []row.Row
	ExpandedTasks []row.Row
	Tasks         []row.Row
	Milestones    []row.Row
}

// Result is the materialized tree plus counts of rows that could not be placed.
type Result struct {
	Roots []*Node

	// Unresolved counts rows whose foreign key matched nothing.
	Unresolved int
}

type entry struct {
	row      row.Row
	bar      bool
	children []int
}

type arena struct {
	entries []entry
	visited []bool
}

func (a *arena) add(r row.Row, bar bool) int {
	a.entries = append(a.entries, entry{row: r, bar: bar})
	return len(a.entries) - 1
}

// Build reconstructs the task tree and numbers it in pre-order.
func Build(in Input) *Result {
	res := &Result{}

	bars := append([]row.Row(nil), in.Bars...)
	leaves := make([]row.Row, 0, len(in.Tasks)+len(in.Milestones))
	leaves = append(leaves, in.Tasks...)
	leaves = append(leaves, in.Milestones...)

	sort.SliceStable(bars, func(i, j int) bool {
		if c := compareKey(bars[i], bars[j], schema.ColExpandedTask); c != 0 {
			return c < 0
		}
		return compareKey(bars[i], bars[j], schema.ColNaturalOrder) < 0
	})
	sort.SliceStable(leaves, func(i, j int) bool {
		return compareKey(leaves[i], leaves[j], schema.ColNaturalOrder) < 0
	})

	a := &arena{}
	barIndex := make(map[int]int, len(bars))
	barOrder := make([]int, 0, len(bars))
	for _, b := range bars {
		idx := a.add(b, true)
		barOrder = append(barOrder, idx)
		if id, ok := b.Integer(schema.ColBarID); ok {
			barIndex[id] = idx
		}
	}

	expandedIndex := make(map[int]int, len(in.ExpandedTasks))
	for _, et := range in.ExpandedTasks {
		barID, _ := et.Integer(schema.ColBar)
		idx, ok := barIndex[barID]
		if !ok {
			res.Unresolved++
			continue
		}
		owner := a.entries[idx].row
		owner.Merge(et, schema.MergePrefix)
		if id, ok := owner.Integer(schema.MergePrefix + schema.ColExpandedTaskID); ok {
			expandedIndex[id] = idx
		}
	}

	var roots []int
	for _, idx := range barOrder {
		etID, hasParent := a.entries[idx].row.Integer(schema.ColExpandedTask)
		parent, ok := expandedIndex[etID]
		if !hasParent || !ok || parent == idx {
			roots = append(roots, idx)
			continue
		}
		a.entries[parent].children = append(a.entries[parent].children, idx)
	}

	for _, leaf := range leaves {
		barID, _ := leaf.Integer(schema.ColBar)
		parent, ok := barIndex[barID]
		if !ok {
			res.Unresolved++
			continue
		}
		idx := a.add(leaf, false)
		a.entries[parent].children = append(a.entries[parent].children, idx)
	}

	kept := roots[:0]
	for _, idx := range roots {
		name := strings.TrimSpace(a.entries[idx].row.String(schema.ColName))
		if name == "" || name == DisplacedItems {
			continue
		}
		kept = append(kept, idx)
	}
	roots = kept
	if len(roots) == 1 {
		roots = a.entries[roots[0]].children
	}

	a.visited = make([]bool, len(a.entries))
	for _, idx := range roots {
		if n := a.materialize(idx, ""); n != nil {
			res.Roots = append(res.Roots, n)
		}
	}

	Number(res.Roots)
	return res
}

// materialize turns one arena entry into a node. Bars without children are
// dropped, and a bar whose only child is itself childless is replaced by
// that child.
func (a *arena) materialize(idx int, parentName string) *Node {
	if a.visited[idx] {
		return nil
	}
	a.visited[idx] = true

	e := a.entries[idx]
	if !e.bar {
		return leafNode(e.row, parentName)
	}

	if len(e.children) == 0 {
		return nil
	}
	name := e.row.String(schema.ColName)
	if len(e.children) == 1 {
		only := e.children[0]
		if len(a.entries[only].children) == 0 {
			a.visited[only] = true
			return leafNode(a.entries[only].row, name)
		}
	}

	n := &Node{
		Kind:     KindBar,
		Row:      e.row,
		UniqueID: e.row.Int(schema.ColBarID),
		Name:     name,
	}
	for _, child := range e.children {
		if c := a.materialize(child, name); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// leafNode classifies a leaf by the presence of a task id. A leaf without a
// name takes the name of its enclosing bar.
func leafNode(r row.Row, parentName string) *Node {
	n := &Node{Row: r, Name: r.String(schema.ColName)}
	if n.Name == "" {
		n.Name = parentName
	}
	if id, ok := r.Integer(schema.ColTaskID); ok {
		n.Kind = KindTask
		n.UniqueID = id
	} else {
		n.Kind = KindMilestone
		n.UniqueID = r.Int(schema.ColMilestoneID)
	}
	return n
}

// Number assigns sequential 1-based ids and outline levels in pre-order.
func Number(roots []*Node) {
	next := 0
	var walk func(nodes []*Node, level int)
	walk = func(nodes []*Node, level int) {
		for _, n := range nodes {
			next++
			n.ID = next
			n.OutlineLevel = level
			walk(n.Children, level+1)
		}
	}
	walk(roots, 1)
}

// Walk visits every node in pre-order.
func Walk(roots []*Node, fn func(*Node)) {
	for _, n := range roots {
		fn(n)
		Walk(n.Children, fn)
	}
}

// compareKey orders rows by an integer column with absent values first.
func compareKey(a, b row.Row, column string) int {
	av, aok := a.Integer(column)
	bv, bok := b.Integer(column)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
