package workflow

import (
	"bytes"
	"strings"
	"testing"
)

// mapSource is a ParameterSource backed by a plain map, keyed by
// target then name.
type mapSource map[string]map[string]Value

func (m mapSource) Get(target, name string) (Value, bool) {
	v, ok := m[target][name]
	return v, ok
}

const applyFixture = `{
  "nodes": [
    {"id": 1, "type": "EmptyLatentImage", "title": "Steps", "widgets_values": [10]},
    {"id": 2, "type": "CLIPTextEncode", "title": "Prompt", "widgets_values": ["old prompt"]},
    {"id": 3, "type": "KSampler", "widgets_values": [42]}
  ],
  "links": [],
  "groups": [
    {"title": "MAIN", "bounding": [0, 0, 100, 100]},
    {"title": "SIDE", "bounding": [200, 0, 100, 100]}
  ]
}`

func TestApply(t *testing.T) {
	template := mustParse(t, applyFixture)
	before, err := template.Marshal(2)
	if err != nil {
		t.Fatal(err)
	}

	src := mapSource{
		"out": {
			"Steps":    IntValue(20),
			"Prompt":   StringValue("a red fox"),
			"KSampler": IntValue(7), // matched by type tag, no title on node 3
			"MAIN":     StringValue("RENAMED"),
			"SIDE":     IntValue(9), // non-string, skipped
		},
	}

	a := NewApplier(nil)
	out, err := a.Apply(template, src, "out")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := out.NodeByID(1).Widgets()[0]; got != int64(20) {
		t.Errorf("Steps widget = %#v, want int64(20)", got)
	}
	if got := out.NodeByID(2).Widgets()[0]; got != "a red fox" {
		t.Errorf("Prompt widget = %#v", got)
	}
	if got := out.NodeByID(3).Widgets()[0]; got != int64(7) {
		t.Errorf("KSampler widget = %#v, want int64(7)", got)
	}
	if got := out.Groups()[0].Title(); got != "RENAMED" {
		t.Errorf("group title = %q", got)
	}
	if got := out.Groups()[1].Title(); got != "SIDE" {
		t.Errorf("non-string group value applied: %q", got)
	}

	// the template itself must be untouched
	after, err := template.Marshal(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Apply mutated the template")
	}
}

func TestApplyFalsyValues(t *testing.T) {
	template := mustParse(t, applyFixture)
	// explicitly falsy values are present, so they are applied
	src := mapSource{
		"out": {
			"Steps":  IntValue(0),
			"Prompt": StringValue(""),
		},
	}

	a := NewApplier(nil)
	out, err := a.Apply(template, src, "out")
	if err != nil {
		t.Fatal(err)
	}
	if got := out.NodeByID(1).Widgets()[0]; got != int64(0) {
		t.Errorf("explicit zero not applied: %#v", got)
	}
	if got := out.NodeByID(2).Widgets()[0]; got != "" {
		t.Errorf("explicit empty string not applied: %#v", got)
	}
}

func TestApplyAbsentLeavesNode(t *testing.T) {
	template := mustParse(t, applyFixture)
	a := NewApplier(nil)
	out, err := a.Apply(template, mapSource{}, "out")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := slotValue(out.NodeByID(1).Widgets()[0]); v != IntValue(10) {
		t.Errorf("unconfigured node mutated: %#v", out.NodeByID(1).Widgets()[0])
	}
}

func TestApplyEmptyTemplateWarns(t *testing.T) {
	template := mustParse(t, `{"nodes": [], "links": [], "groups": []}`)
	a := NewApplier(nil)

	out, err := a.Apply(template, mapSource{}, "out")
	if err != nil {
		t.Fatalf("an empty template is not fatal: %v", err)
	}
	if out == nil {
		t.Fatal("Apply returned no clone")
	}
	if len(a.Warnings()) != 1 || !strings.Contains(a.Warnings()[0], "no nodes") {
		t.Errorf("want a no-nodes warning, got %v", a.Warnings())
	}
}
