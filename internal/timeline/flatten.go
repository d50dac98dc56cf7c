package timeline

// Row is one visible line of the timeline after applying expand state.
type Row struct {
	Node
	Depth int
	// Expandable is true for parent task rows with subtasks.
	Expandable bool
	Expanded   bool
}

// Flatten lists the visible rows of tree. Projects and phases are always
// open; parent task rows are collapsed unless their id is in expanded.
// Expand state is presentation only and never changes any bar.
func Flatten(tree Tree, expanded map[string]bool) []Row {
	var rows []Row
	for _, p := range tree.Projects {
		rows = append(rows, Row{Node: p, Depth: 0})
		for _, phase := range p.Children {
			rows = append(rows, Row{Node: phase, Depth: 1})
			for _, n := range phase.Children {
				open := n.Kind == KindGroup && expanded[n.ID]
				rows = append(rows, Row{
					Node:       n,
					Depth:      2,
					Expandable: n.Kind == KindGroup && len(n.Children) > 0,
					Expanded:   open,
				})
				if !open {
					continue
				}
				for _, c := range n.Children {
					rows = append(rows, Row{Node: c, Depth: 3})
				}
			}
		}
	}
	return rows
}

// Walk visits every node depth-first, parents before children.
func Walk(nodes []Node, fn func(n Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(n Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Children, depth+1, fn)
	}
}
