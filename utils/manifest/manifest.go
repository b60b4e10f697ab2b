// Package manifest parses the configuration DSL that declares which
// workflow files to generate and the parameter values to apply to each.
package manifest

import (
	"strings"

	"wfmake/utils/workflow"
)

// Target is one declared output: a logical name paired with the
// filename the generated workflow is written to.
type Target struct {
	Name     string // identifier used in parameter lookups and on the command line
	Filename string // output filename, always carrying an extension
}

// WildcardRule matches parameter names by prefix and suffix. Rules are
// tried in declaration order; the first match wins.
type WildcardRule struct {
	Prefix string
	Suffix string
	Value  workflow.Value
}

// Configurations is the parsed form of a configuration file: the
// declared targets, each target's exact parameters and wildcard rules,
// and the global variables of the parse session.
type Configurations struct {
	targets   []Target
	params    map[string]map[string]workflow.Value
	wildcards map[string][]WildcardRule
	globals   map[string]string
}

// Targets returns the declared targets in declaration order.
func (c *Configurations) Targets() []Target { return c.targets }

// Target looks up a declared target by name.
func (c *Configurations) Target(name string) (Target, bool) {
	for _, t := range c.targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// Global returns a global variable of the parse session.
func (c *Configurations) Global(name string) (string, bool) {
	v, ok := c.globals[name]
	return v, ok
}

// Get resolves a parameter for a target: exact parameters first, then
// each wildcard rule in declaration order. found distinguishes "not
// configured" from explicitly falsy values, which are still returned.
func (c *Configurations) Get(target, name string) (workflow.Value, bool) {
	if params, ok := c.params[target]; ok {
		if v, ok := params[name]; ok {
			return v, true
		}
	}
	for _, rule := range c.wildcards[target] {
		if strings.HasPrefix(name, rule.Prefix) && strings.HasSuffix(name, rule.Suffix) {
			return rule.Value, true
		}
	}
	return workflow.Value{}, false
}
