package workflow

import (
	"wfmake/utils/config"
)

// ParameterSource resolves a configured value for a node or group
// display name. found is false only when the name has no configured
// value at all; explicitly falsy values (0, "") are still applied.
type ParameterSource interface {
	Get(target, name string) (value Value, found bool)
}

// Apply instantiates the template for one target: it clones the
// template and assigns every configured node and group value on the
// clone. The template itself is never mutated. Warnings from skipped
// assignments accumulate on the Applier; only a reroute cycle aborts.
func (a *Applier) Apply(template *Graph, params ParameterSource, target string) (*Graph, error) {
	out := template.Clone()

	if len(out.Nodes()) == 0 {
		a.warnf("template has no nodes, nothing to apply for %q", target)
		return out, nil
	}

	for _, n := range out.Nodes() {
		value, found := params.Get(target, n.DisplayName())
		if !found {
			continue
		}
		config.DebugLog("applying %q to node %q", value.Text(), n.DisplayName())
		if err := a.SetNodeValue(out, n, value); err != nil {
			return nil, err
		}
	}

	for _, gr := range out.Groups() {
		value, found := params.Get(target, gr.Title())
		if !found {
			continue
		}
		config.DebugLog("applying %q to group %q", value.Text(), gr.Title())
		a.SetGroupValue(gr, value)
	}

	return out, nil
}
