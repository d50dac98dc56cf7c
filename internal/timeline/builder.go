package timeline

import (
	"sort"

	"github.com/alexanderramin/daywise/internal/domain"
)

// group is a parent task (possibly not loaded) with all of its descendants,
// or a standalone task when it has no parent and no children.
type group struct {
	key      string
	title    string
	project  string
	root     *Leaf
	children []Leaf
}

// contributing returns the leaves the group bar is computed from. The parent
// counts when it is scheduled itself or when it stands alone.
func (g *group) contributing() []Leaf {
	items := make([]Leaf, 0, len(g.children)+1)
	if g.root != nil && (g.root.Scheduled || len(g.children) == 0) {
		items = append(items, *g.root)
	}
	return append(items, g.children...)
}

// Build turns the input snapshot into the aggregation tree. Every leaf is
// built before any aggregate is computed. Expand state does not matter here:
// aggregates always consider every descendant.
func Build(in Input) Tree {
	tree := Tree{Days: in.Days}
	leaves := BuildLeaves(in)
	if len(leaves) == 0 {
		return tree
	}

	groups := groupLeaves(leaves, in.ExtraTitles)

	type projectBucket struct {
		nodes []Node
		items []Leaf
	}
	buckets := make(map[string]*projectBucket)
	for _, g := range groups {
		items := g.contributing()
		b := buckets[g.project]
		if b == nil {
			b = &projectBucket{}
			buckets[g.project] = b
		}
		b.items = append(b.items, items...)
		b.nodes = append(b.nodes, groupNode(g, items))
	}

	for projectID, b := range buckets {
		sortNodes(b.nodes)
		bar := Aggregate(b.items)
		phase := Node{
			Kind:     KindPhase,
			ID:       PhaseID(projectID),
			Title:    PlaceholderPhaseTitle,
			Bar:      bar,
			Children: b.nodes,
		}
		tree.Projects = append(tree.Projects, Node{
			Kind:     KindProject,
			ID:       projectID,
			Title:    projectTitle(projectID, in.ProjectNames),
			Bar:      bar,
			Children: []Node{phase},
		})
	}
	sortProjects(tree.Projects)
	return tree
}

// PhaseID returns the id of a project's placeholder phase.
func PhaseID(projectID string) string {
	if projectID == domain.UnassignedProjectID {
		return "phase:unassigned"
	}
	return "phase:" + projectID
}

func projectTitle(projectID string, names map[string]string) string {
	if projectID == domain.UnassignedProjectID {
		return UnassignedProjectTitle
	}
	return domain.CoalesceStr(names[projectID], projectID)
}

func groupNode(g *group, items []Leaf) Node {
	if g.root != nil && len(g.children) == 0 {
		return leafNode(*g.root)
	}
	n := Node{
		Kind:     KindGroup,
		ID:       g.key,
		Title:    g.title,
		Bar:      Aggregate(items),
		Children: make([]Node, 0, len(g.children)),
	}
	for _, c := range g.children {
		n.Children = append(n.Children, leafNode(c))
	}
	return n
}

func leafNode(l Leaf) Node {
	return Node{Kind: KindTask, ID: l.TaskID, Title: l.Title, Bar: l.Bar, Step: l.OrderInParent}
}

// groupLeaves assigns every leaf to the group of its top-most loaded ancestor.
// A leaf whose parent is not loaded groups under that parent id.
func groupLeaves(leaves []Leaf, extraTitles map[string]string) []*group {
	byID := make(map[string]int, len(leaves))
	for i, l := range leaves {
		byID[l.TaskID] = i
	}

	groups := make(map[string]*group)
	var order []string
	get := func(key string) *group {
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		return g
	}

	for i := range leaves {
		top := topAncestor(i, leaves, byID)
		switch {
		case top == i && leaves[i].ParentID == "":
			get(leaves[i].TaskID).root = &leaves[i]
		case leaves[top].ParentID == "":
			get(leaves[top].TaskID).children = append(get(leaves[top].TaskID).children, leaves[i])
		default:
			// The top-most loaded ancestor points at a parent that is not loaded.
			key := leaves[top].ParentID
			get(key).children = append(get(key).children, leaves[i])
		}
	}

	out := make([]*group, 0, len(order))
	for _, key := range order {
		g := groups[key]
		switch {
		case g.root != nil:
			g.title = g.root.Title
			g.project = g.root.ProjectID
		default:
			g.title = domain.CoalesceStr(extraTitles[key], MissingParentTitle)
		}
		sortChildren(g.children)
		if g.root == nil && len(g.children) > 0 {
			g.project = g.children[0].ProjectID
		}
		out = append(out, g)
	}
	return out
}

// topAncestor walks parent links through loaded leaves and returns the index
// of the top-most one reached. Cycles stop at the first repeated leaf.
func topAncestor(i int, leaves []Leaf, byID map[string]int) int {
	visited := map[int]bool{i: true}
	cur := i
	for {
		p, ok := byID[leaves[cur].ParentID]
		if !ok || leaves[cur].ParentID == "" || visited[p] {
			return cur
		}
		visited[p] = true
		cur = p
	}
}

// sortChildren orders subtasks by order-in-parent (unset last), then start
// index, then title.
func sortChildren(children []Leaf) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if (a.OrderInParent == nil) != (b.OrderInParent == nil) {
			return a.OrderInParent != nil
		}
		if a.OrderInParent != nil && *a.OrderInParent != *b.OrderInParent {
			return *a.OrderInParent < *b.OrderInParent
		}
		if a.Bar.StartIndex != b.Bar.StartIndex {
			return a.Bar.StartIndex < b.Bar.StartIndex
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.TaskID < b.TaskID
	})
}

// sortNodes orders rows within a phase by start index, then title.
func sortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Bar.StartIndex != b.Bar.StartIndex {
			return a.Bar.StartIndex < b.Bar.StartIndex
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// sortProjects orders projects by title with the unassigned bucket last.
func sortProjects(projects []Node) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		aUn, bUn := a.ID == domain.UnassignedProjectID, b.ID == domain.UnassignedProjectID
		if aUn != bUn {
			return bUn
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}
