package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"wfmake/utils/config"
)

// Link is one graph edge: an output port of the source node wired to an
// input port of the target node.
type Link struct {
	ID      int64
	SrcNode int64
	SrcPort int
	DstNode int64
	DstPort int
}

// Node is a typed view over one node object of the underlying document.
// Mutations through the view write into the document, so a serialized
// graph reflects every change.
type Node struct {
	raw map[string]interface{}
}

// Group is a typed view over one group object (a titled bounding box).
type Group struct {
	raw map[string]interface{}
}

// Graph is an in-memory workflow template: the decoded document plus
// id-indexed lookup tables. The document keeps every field it was
// loaded with, including ones this tool never touches, so the output
// file matches the template's shape.
type Graph struct {
	doc       map[string]interface{}
	nodes     []*Node
	groups    []*Group
	links     map[int64]Link
	nodesByID map[int64]*Node
}

// Parse decodes a serialized workflow graph. Numbers are kept in their
// source representation so integer widget slots stay integers.
func Parse(data []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid workflow JSON: %w", err)
	}
	return newGraph(doc), nil
}

// LoadFile reads and parses a workflow template from disk.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return g, nil
}

// newGraph builds the node, group and link views over a decoded
// document. Called at load time and again after every clone so the
// indexes never alias another graph's document.
func newGraph(doc map[string]interface{}) *Graph {
	g := &Graph{
		doc:       doc,
		links:     make(map[int64]Link),
		nodesByID: make(map[int64]*Node),
	}

	if rawNodes, ok := doc["nodes"].([]interface{}); ok {
		for _, rn := range rawNodes {
			obj, ok := rn.(map[string]interface{})
			if !ok {
				continue
			}
			n := &Node{raw: obj}
			g.nodes = append(g.nodes, n)
			g.nodesByID[n.ID()] = n
		}
	}

	if rawLinks, ok := doc["links"].([]interface{}); ok {
		for _, rl := range rawLinks {
			link, ok := parseLink(rl)
			if !ok {
				config.DebugLog("dropping malformed link entry: %v", rl)
				continue
			}
			g.links[link.ID] = link
		}
	}

	if rawGroups, ok := doc["groups"].([]interface{}); ok {
		for _, rg := range rawGroups {
			obj, ok := rg.(map[string]interface{})
			if !ok {
				continue
			}
			g.groups = append(g.groups, &Group{raw: obj})
		}
	}

	return g
}

// parseLink decodes one entry of the links array, a tuple of at least
// five numbers [id, srcNode, srcPort, dstNode, dstPort, ...].
func parseLink(raw interface{}) (Link, bool) {
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) < 5 {
		return Link{}, false
	}
	nums := make([]int64, 5)
	for i := 0; i < 5; i++ {
		n, ok := asInt64(tuple[i])
		if !ok {
			return Link{}, false
		}
		nums[i] = n
	}
	return Link{
		ID:      nums[0],
		SrcNode: nums[1],
		SrcPort: int(nums[2]),
		DstNode: nums[3],
		DstPort: int(nums[4]),
	}, true
}

// Nodes returns the graph's nodes in declaration order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Groups returns the graph's groups in declaration order.
func (g *Graph) Groups() []*Group { return g.groups }

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id int64) *Node { return g.nodesByID[id] }

// LinkByID returns the link with the given id.
func (g *Graph) LinkByID(id int64) (Link, bool) {
	l, ok := g.links[id]
	return l, ok
}

// Clone returns an independent copy of the graph. The copy is deep:
// mutating the clone's widget values or titles never touches the
// original, and the clone's indexes are rebuilt over its own document.
func (g *Graph) Clone() *Graph {
	doc := deepCopy(g.doc).(map[string]interface{})
	return newGraph(doc)
}

func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		// strings, json.Number, bool, nil are immutable
		return v
	}
}

// Encode serializes the graph with the given indentation width.
// Non-ASCII characters are written unescaped.
func (g *Graph) Encode(w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	return enc.Encode(g.doc)
}

// Marshal serializes the graph to bytes with the given indentation.
func (g *Graph) Marshal(indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Encode(&buf, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//---------------------------------- NODE -----------------------------------

// ID returns the node id, unique within the graph.
func (n *Node) ID() int64 {
	id, _ := asInt64(n.raw["id"])
	return id
}

// Type returns the node's type tag.
func (n *Node) Type() string {
	t, _ := n.raw["type"].(string)
	return t
}

// Title returns the node's display title, or "" when it has none.
func (n *Node) Title() string {
	t, _ := n.raw["title"].(string)
	return t
}

// SetTitle replaces the node's display title.
func (n *Node) SetTitle(title string) {
	n.raw["title"] = title
}

// DisplayName is the title when present, the type tag otherwise.
func (n *Node) DisplayName() string {
	if t := n.Title(); t != "" {
		return t
	}
	return n.Type()
}

// Widgets returns the node's widget value slots, nil when it has none.
// The slice is backed by the document: writes through SetWidget are
// visible on serialization.
func (n *Node) Widgets() []interface{} {
	w, _ := n.raw["widgets_values"].([]interface{})
	return w
}

// SetWidget overwrites one widget slot in place.
func (n *Node) SetWidget(i int, v interface{}) {
	if w := n.Widgets(); i >= 0 && i < len(w) {
		w[i] = v
	}
}

// SetWidgets replaces the node's whole widget array.
func (n *Node) SetWidgets(values []interface{}) {
	n.raw["widgets_values"] = values
}

// OutputCount returns the number of output ports on the node.
func (n *Node) OutputCount() int {
	outs, _ := n.raw["outputs"].([]interface{})
	return len(outs)
}

// OutputLinks returns the outgoing link ids of one output port in
// declaration order. ok is false when the port index does not exist.
func (n *Node) OutputLinks(port int) (ids []int64, ok bool) {
	outs, _ := n.raw["outputs"].([]interface{})
	if port < 0 || port >= len(outs) {
		return nil, false
	}
	obj, _ := outs[port].(map[string]interface{})
	if obj == nil {
		return nil, true
	}
	rawIDs, _ := obj["links"].([]interface{})
	for _, r := range rawIDs {
		if id, ok := asInt64(r); ok {
			ids = append(ids, id)
		}
	}
	return ids, true
}

// Pinned reports whether the node carries the pinned flag.
func (n *Node) Pinned() bool {
	flags, _ := n.raw["flags"].(map[string]interface{})
	if flags == nil {
		return false
	}
	pinned, _ := flags["pinned"].(bool)
	return pinned
}

// Pos returns the node's canvas position. Both serialized forms are
// understood: a two element array and an object keyed "0"/"1".
func (n *Node) Pos() (x, y float64) {
	switch pos := n.raw["pos"].(type) {
	case []interface{}:
		if len(pos) >= 2 {
			x, _ = asFloat64(pos[0])
			y, _ = asFloat64(pos[1])
		}
	case map[string]interface{}:
		if v, ok := asFloat64(pos["0"]); ok {
			x = v
		}
		if v, ok := asFloat64(pos["1"]); ok {
			y = v
		}
	}
	return x, y
}

func (n *Node) attr(key string) interface{} { return n.raw[key] }

//---------------------------------- GROUP ----------------------------------

// Title returns the group's display title.
func (gr *Group) Title() string {
	t, _ := gr.raw["title"].(string)
	return t
}

// SetTitle replaces the group's display title.
func (gr *Group) SetTitle(title string) {
	gr.raw["title"] = title
}

// Bounding returns the group rectangle as [x, y, w, h]; missing or
// short arrays yield a shorter slice.
func (gr *Group) Bounding() []float64 {
	raw, _ := gr.raw["bounding"].([]interface{})
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		f, ok := asFloat64(r)
		if !ok {
			break
		}
		out = append(out, f)
	}
	return out
}

//--------------------------------- HELPERS ---------------------------------

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
