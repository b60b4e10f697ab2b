package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"wfmake/utils/workflow"
)

func mustGet(t *testing.T, c *Configurations, target, name string) workflow.Value {
	t.Helper()
	v, ok := c.Get(target, name)
	if !ok {
		t.Fatalf("Get(%q, %q) not found", target, name)
	}
	return v
}

func TestParseBasic(t *testing.T) {
	text := `
# a comment
@TEMPLATE: template.json

./photo-fast
Steps: 20
CFG: 4.5
Prompt: 'a red fox'

./photo-hq.json
Steps: 60
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	targets := c.Targets()
	if len(targets) != 2 {
		t.Fatalf("targets = %+v, want 2", targets)
	}
	if targets[0] != (Target{Name: "photo-fast", Filename: "photo-fast.json"}) {
		t.Errorf("target[0] = %+v", targets[0])
	}
	if targets[1] != (Target{Name: "photo-hq", Filename: "photo-hq.json"}) {
		t.Errorf("target[1] = %+v", targets[1])
	}

	if tpl, ok := c.Global("TEMPLATE"); !ok || tpl != "template.json" {
		t.Errorf("Global(TEMPLATE) = %q, %v", tpl, ok)
	}

	if v := mustGet(t, c, "photo-fast", "Steps"); v != workflow.IntValue(20) {
		t.Errorf("Steps = %#v", v)
	}
	if v := mustGet(t, c, "photo-fast", "CFG"); v != workflow.FloatValue(4.5) {
		t.Errorf("CFG = %#v", v)
	}
	if v := mustGet(t, c, "photo-fast", "Prompt"); v != workflow.StringValue("a red fox") {
		t.Errorf("quoted literal = %#v", v)
	}
	if v := mustGet(t, c, "photo-hq", "Steps"); v != workflow.IntValue(60) {
		t.Errorf("Steps(hq) = %#v", v)
	}
	if _, ok := c.Get("photo-hq", "CFG"); ok {
		t.Error("parameters must not leak across targets")
	}
}

func TestParseIdempotent(t *testing.T) {
	text := `
@TEMPLATE: t.json
./a
X: 1
LoRA*: 0.5
./b
Y: 'two'
`
	first, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same text twice yields different Configurations")
	}
}

func TestFilenameNormalization(t *testing.T) {
	c, err := Parse(".//nested/out\nA: 1\n", ".")
	if err != nil {
		t.Fatal(err)
	}
	// leading dots and slashes are stripped, not interior ones
	want := Target{Name: "nested/out", Filename: "nested/out.json"}
	if c.Targets()[0] != want {
		t.Errorf("target = %+v, want %+v", c.Targets()[0], want)
	}
}

func TestFilenameWithSpacesIsFatal(t *testing.T) {
	_, err := Parse("./my file\nA: 1\n", ".")
	if err == nil {
		t.Fatal("a filename with spaces must fail the parse")
	}
	if !strings.Contains(err.Error(), "spaces") {
		t.Errorf("error = %v", err)
	}
}

func TestExactParameterWinsOverWildcard(t *testing.T) {
	text := `
./t
LoRA*: 0.5
LoRA strength: 0.9
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, c, "t", "LoRA strength"); v != workflow.FloatValue(0.9) {
		t.Errorf("exact parameter beaten by wildcard: %#v", v)
	}
}

func TestWildcardFirstDeclaredWins(t *testing.T) {
	text := `
./t
LoRA*strength: 0.8
LoRA*: 0.1
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, c, "t", "LoRA character strength"); v != workflow.FloatValue(0.8) {
		t.Errorf("first matching rule must win: %#v", v)
	}
	if v := mustGet(t, c, "t", "LoRA other"); v != workflow.FloatValue(0.1) {
		t.Errorf("fallback rule: %#v", v)
	}
	if _, ok := c.Get("t", "Sampler"); ok {
		t.Error("non-matching name resolved")
	}
}

func TestWildcardSplitsOnFirstStar(t *testing.T) {
	text := `
./t
A*B*C: 1
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	// prefix "A", suffix "B*C": the second star matches literally
	if _, ok := c.Get("t", "AxByC"); ok {
		t.Error("second star must not act as a wildcard")
	}
	if v := mustGet(t, c, "t", "AxB*C"); v != workflow.IntValue(1) {
		t.Errorf("literal star suffix: %#v", v)
	}
}

func TestLaterExactDeclarationOverwrites(t *testing.T) {
	text := `
./t
Steps: 20
Steps: 30
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, c, "t", "Steps"); v != workflow.IntValue(30) {
		t.Errorf("later declaration must overwrite: %#v", v)
	}
}

func TestNodeAliasIndirection(t *testing.T) {
	text := `
@NODE.CFG: CFG Scale (very long node title)
./t
NODE.CFG: 7.5
NODE.Other: 1
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if v := mustGet(t, c, "t", "CFG Scale (very long node title)"); v != workflow.FloatValue(7.5) {
		t.Errorf("aliased key = %#v", v)
	}
	// no matching global: the key stays literal
	if v := mustGet(t, c, "t", "NODE.Other"); v != workflow.IntValue(1) {
		t.Errorf("unaliased key = %#v", v)
	}
}

func TestRedeclaredTargetKeepsOneEntry(t *testing.T) {
	text := `
./t
Steps: 20
CFG: 4.5
./other
A: 1
./t
Steps: 60
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	targets := c.Targets()
	if len(targets) != 2 {
		t.Fatalf("targets = %+v, want 2 (one per filename)", targets)
	}
	if targets[0].Name != "t" || targets[1].Name != "other" {
		t.Errorf("targets = %+v", targets)
	}
	// the later section replaces the earlier one wholesale
	if v := mustGet(t, c, "t", "Steps"); v != workflow.IntValue(60) {
		t.Errorf("Steps = %#v, want the later declaration", v)
	}
	if _, ok := c.Get("t", "CFG"); ok {
		t.Error("parameters from the replaced section must not survive")
	}
}

func TestTargetWithoutParametersIsDropped(t *testing.T) {
	text := `
./empty
./real
A: 1
`
	c, err := Parse(text, ".")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Targets()) != 1 || c.Targets()[0].Name != "real" {
		t.Errorf("targets = %+v, want only 'real'", c.Targets())
	}
}

func TestTargetWithOnlyWildcardIsKept(t *testing.T) {
	c, err := Parse("./t\nLoRA*: 1\n", ".")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Targets()) != 1 {
		t.Errorf("a target with only wildcard rules must be recorded: %+v", c.Targets())
	}
}

func TestExternalReference(t *testing.T) {
	dir := t.TempDir()
	prompts := `./photo-fast
a red fox, autumn leaves
--------
./*
shared fallback text
--------
`
	if err := os.WriteFile(filepath.Join(dir, "prompts.txt"), []byte(prompts), 0o644); err != nil {
		t.Fatal(err)
	}

	text := `
./photo-fast
Prompt: @prompts.txt
./other
Prompt: @prompts.txt
./missing-ref
Prompt: @nope.txt
`
	c, err := Parse(text, dir)
	if err != nil {
		t.Fatal(err)
	}

	if v := mustGet(t, c, "photo-fast", "Prompt"); v != workflow.StringValue("a red fox, autumn leaves") {
		t.Errorf("extracted text = %#v", v)
	}
	// no region for "other": the universal marker region applies
	if v := mustGet(t, c, "other", "Prompt"); v != workflow.StringValue("shared fallback text") {
		t.Errorf("universal region = %#v", v)
	}
	// a missing reference file silently yields an empty value
	if v := mustGet(t, c, "missing-ref", "Prompt"); v != workflow.StringValue("") {
		t.Errorf("missing reference = %#v", v)
	}
}

func TestExtractTextStopsAtDashes(t *testing.T) {
	dir := t.TempDir()
	content := "./t\nline one\nline two\n----\nnot captured\n"
	path := filepath.Join(dir, "ref.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got := extractText(path, "./t")
	if got != "line one\nline two\n" {
		t.Errorf("extractText() = %q", got)
	}
	if extractText(path, "./unknown") != "" {
		t.Error("unknown marker must yield an empty string")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("a missing configuration file must be an error")
	}
}
