package workflow

// UnpinnedNode identifies a node that is not pinned on the canvas,
// with its position for locating it in the editor.
type UnpinnedNode struct {
	Name string
	X    float64
	Y    float64
}

// CheckReport summarizes structural issues found in a workflow file:
// nodes left unpinned and nodes whose geometry attributes are not valid
// two-element array-likes.
type CheckReport struct {
	Unpinned   []UnpinnedNode
	PosIssues  int
	SizeIssues int
}

// Check inspects the graph for editor hygiene issues. It never mutates
// the graph.
func (g *Graph) Check() CheckReport {
	var report CheckReport
	for _, n := range g.nodes {
		if !n.Pinned() {
			x, y := n.Pos()
			report.Unpinned = append(report.Unpinned, UnpinnedNode{Name: n.DisplayName(), X: x, Y: y})
		}
		if pos := n.attr("pos"); pos != nil && !isTwoElementArrayLike(pos) {
			report.PosIssues++
		}
		if size := n.attr("size"); size != nil && !isTwoElementArrayLike(size) {
			report.SizeIssues++
		}
	}
	return report
}

// Clean reports whether the workflow has no issues.
func (r CheckReport) Clean() bool {
	return len(r.Unpinned) == 0 && r.PosIssues == 0 && r.SizeIssues == 0
}

// isTwoElementArrayLike accepts the two serialized forms of a canvas
// vector: a two-element array or an object with keys "0" and "1".
func isTwoElementArrayLike(v interface{}) bool {
	switch val := v.(type) {
	case []interface{}:
		return len(val) == 2
	case map[string]interface{}:
		if len(val) != 2 {
			return false
		}
		_, has0 := val["0"]
		_, has1 := val["1"]
		return has0 && has1
	default:
		return false
	}
}
