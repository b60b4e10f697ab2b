package workflow

import (
	"fmt"
	"strings"

	"wfmake/utils/config"
)

// Node types with special assignment behavior.
const (
	typePrimitive = "PrimitiveNode"
	typeReroute   = "Reroute"
	typeNote      = "Note"
)

// Applier injects configured values into a cloned graph. It carries the
// run-scoped state one instantiation needs: the vocabulary used for
// heuristic matching and the warnings the run produced. A fresh Applier
// is created per run; nothing here is process-wide.
type Applier struct {
	vocab    *Vocabulary
	warnings []string
}

// NewApplier returns an applier using the given vocabulary, or the
// default vocabulary when nil.
func NewApplier(vocab *Vocabulary) *Applier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Applier{vocab: vocab}
}

// Warnings returns the warnings recorded so far, in emission order.
func (a *Applier) Warnings() []string { return a.warnings }

func (a *Applier) warnf(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	a.warnings = append(a.warnings, text)
	config.Warning("%s", text)
}

// ConnectedNodes returns the terminal nodes reachable from one output
// port of a node, in link declaration order. Reroute chains are
// flattened: a reroute is never a terminal, its own first output port
// is followed instead. ok is false when the port index does not exist
// on the node. A reroute cycle is reported as an error; the template is
// expected to be a DAG and a cycle would otherwise never terminate.
func (g *Graph) ConnectedNodes(n *Node, port int) (nodes []*Node, ok bool, err error) {
	linkIDs, ok := n.OutputLinks(port)
	if !ok {
		return nil, false, nil
	}
	visited := map[int64]bool{n.ID(): true}
	nodes, err = g.collectConnected(linkIDs, visited)
	return nodes, true, err
}

func (g *Graph) collectConnected(linkIDs []int64, visited map[int64]bool) ([]*Node, error) {
	var out []*Node
	for _, id := range linkIDs {
		link, ok := g.links[id]
		if !ok {
			continue
		}
		target := g.nodesByID[link.DstNode]
		if target == nil {
			continue
		}
		if target.Type() != typeReroute {
			out = append(out, target)
			continue
		}
		if visited[target.ID()] {
			return nil, fmt.Errorf("reroute cycle detected at node %d (%s)", target.ID(), target.DisplayName())
		}
		visited[target.ID()] = true
		next, ok := target.OutputLinks(0)
		if !ok {
			continue
		}
		chained, err := g.collectConnected(next, visited)
		if err != nil {
			return nil, err
		}
		out = append(out, chained...)
	}
	return out, nil
}

// SetNodeValue assigns a configured value to a node, deciding which
// widget slot(s) to mutate. Four mutually exclusive cases, evaluated in
// this order: primitive fan-out, note text, single slot, heuristic kind
// match. Only a reroute cycle is an error; unmatched or ambiguous slots
// degrade to warnings and the assignment is skipped.
func (a *Applier) SetNodeValue(g *Graph, n *Node, value Value) error {
	widgets := n.Widgets()

	switch {
	case n.Type() == typePrimitive && len(widgets) > 0:
		return a.setPrimitiveValue(g, n, value)

	case n.Type() == typeNote:
		a.setNoteValue(n, value)
		return nil

	case len(widgets) == 1:
		n.SetWidget(0, renderToSlot(value, widgets[0]))
		return nil

	default:
		a.setHeuristicValue(n, value)
		return nil
	}
}

// setPrimitiveValue propagates a value from a primitive node to every
// node wired to its first output, resolving reroute chains. The
// primitive's current value is the matching key: on the origin and each
// terminal, exactly one slot equal to the old value is overwritten.
func (a *Applier) setPrimitiveValue(g *Graph, n *Node, value Value) error {
	old, ok := slotValue(n.Widgets()[0])
	if !ok {
		a.warnf("node %q: primitive holds a non-scalar value, cannot apply %q", n.DisplayName(), value.Text())
		return nil
	}

	// a primitive without outputs still updates itself
	targets, _, err := g.ConnectedNodes(n, 0)
	if err != nil {
		return err
	}

	a.overwriteMatching(n, n, old, value)
	for _, target := range targets {
		a.overwriteMatching(n, target, old, value)
	}
	return nil
}

// overwriteMatching applies the scoped mutation rule: find the slots of
// target whose current value equals old; mutate only when exactly one
// qualifies, preserving the slot's original value type.
func (a *Applier) overwriteMatching(origin, target *Node, old, value Value) {
	widgets := target.Widgets()
	matchIdx := -1
	matches := 0
	for i, slot := range widgets {
		current, ok := slotValue(slot)
		if !ok {
			continue
		}
		if current.Matches(old) {
			matches++
			matchIdx = i
		}
	}

	switch matches {
	case 1:
		target.SetWidget(matchIdx, renderToSlot(value, widgets[matchIdx]))
	case 0:
		a.warnf("%s: no widget matches old value %q, cannot apply %q",
			nodePath(origin, target), old.Text(), value.Text())
	default:
		a.warnf("%s: %d widgets match old value %q, ambiguous target for %q",
			nodePath(origin, target), matches, old.Text(), value.Text())
	}
}

// setNoteValue treats the incoming value as free text. A multi-line
// value retitles the note with its first line and stores the rest as
// content; a single line only replaces the content.
func (a *Applier) setNoteValue(n *Node, value Value) {
	lines := strings.Split(value.Text(), "\n")
	if len(lines) > 1 {
		n.SetTitle(lines[0])
		n.SetWidgets([]interface{}{strings.Join(lines[1:], "\n")})
		return
	}
	n.SetWidgets([]interface{}{lines[0]})
}

// setHeuristicValue matches the incoming value's kind against the kinds
// of the node's current slots, with the same exactly-one rule as the
// primitive case.
func (a *Applier) setHeuristicValue(n *Node, value Value) {
	kind := a.vocab.Classify(value)
	widgets := n.Widgets()
	matchIdx := -1
	matches := 0
	for i, slot := range widgets {
		current, ok := slotValue(slot)
		if !ok {
			continue
		}
		if a.vocab.Classify(current) == kind {
			matches++
			matchIdx = i
		}
	}

	switch matches {
	case 1:
		n.SetWidget(matchIdx, renderToSlot(value, widgets[matchIdx]))
	case 0:
		a.warnf("node %q: no widget of kind %s, cannot apply %q", n.DisplayName(), kind, value.Text())
	default:
		a.warnf("node %q: %d widgets of kind %s, ambiguous target for %q", n.DisplayName(), matches, kind, value.Text())
	}
}

// SetGroupValue overwrites a group title. Group titles are plain
// strings; non-string values are skipped without a warning.
func (a *Applier) SetGroupValue(gr *Group, value Value) {
	if !value.IsString() {
		config.DebugLog("group %q: skipping non-string value %q", gr.Title(), value.Text())
		return
	}
	gr.SetTitle(value.Text())
}

// nodePath renders an origin→target chain for warning messages.
func nodePath(origin, target *Node) string {
	if origin == target {
		return fmt.Sprintf("node %q", origin.DisplayName())
	}
	return fmt.Sprintf("node %q -> %q", origin.DisplayName(), target.DisplayName())
}
