// Package builder orchestrates workflow generation: it loads the
// template named by the configuration, instantiates it per target, and
// writes (or removes) the output files.
package builder

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"wfmake/utils/config"
	"wfmake/utils/manifest"
	"wfmake/utils/workflow"
)

// TemplateVar is the global variable naming the template file.
const TemplateVar = "TEMPLATE"

// Builder generates workflow files for the targets of one parsed
// configuration. The template is loaded lazily and reused across
// targets; each target mutates its own clone.
type Builder struct {
	configs  *manifest.Configurations
	indent   int
	template *workflow.Graph
}

// New returns a builder writing JSON with the given indentation width.
func New(configs *manifest.Configurations, indent int) *Builder {
	return &Builder{configs: configs, indent: indent}
}

// Template loads the graph named by the @TEMPLATE global. Missing
// configuration or a missing file is fatal for the whole run.
func (b *Builder) Template() (*workflow.Graph, error) {
	if b.template != nil {
		return b.template, nil
	}
	path, ok := b.configs.Global(TemplateVar)
	if !ok || path == "" {
		return nil, fmt.Errorf("no template is defined in the configuration (set the global variable @%s)", TemplateVar)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("the template file %q does not exist (check the @%s variable)", path, TemplateVar)
	}
	tpl, err := workflow.LoadFile(path)
	if err != nil {
		return nil, err
	}
	b.template = tpl
	return tpl, nil
}

// Make generates one target's workflow file. The write is skipped when
// the file already holds identical content.
func (b *Builder) Make(target manifest.Target) error {
	tpl, err := b.Template()
	if err != nil {
		return err
	}

	config.Message("Building '%s'", target.Filename)
	applier := workflow.NewApplier(nil)
	out, err := applier.Apply(tpl, b.configs, target.Name)
	if err != nil {
		return err
	}

	data, err := out.Marshal(b.indent)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", target.Filename, err)
	}
	if unchanged(target.Filename, data) {
		config.VerboseLog("'%s' is up to date, skipping write", target.Filename)
		return nil
	}
	if err := os.WriteFile(target.Filename, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target.Filename, err)
	}
	return nil
}

// MakeAll generates every declared target.
func (b *Builder) MakeAll() error {
	for _, target := range b.configs.Targets() {
		if err := b.Make(target); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes every declared target's output file if present.
func (b *Builder) Clean() error {
	for _, target := range b.configs.Targets() {
		if _, err := os.Stat(target.Filename); err != nil {
			continue
		}
		config.Message("Removing '%s'", target.Filename)
		if err := os.Remove(target.Filename); err != nil {
			return fmt.Errorf("removing %s: %w", target.Filename, err)
		}
	}
	return nil
}

// Process dispatches one command-line target: "clean", "all", or a
// declared target name.
func (b *Builder) Process(name string) error {
	switch name {
	case "clean":
		return b.Clean()
	case "all":
		return b.MakeAll()
	default:
		target, ok := b.configs.Target(name)
		if !ok {
			return fmt.Errorf("unknown target %q (declare it in the configuration file)", name)
		}
		return b.Make(target)
	}
}

// unchanged reports whether path already holds exactly data, compared
// by content hash.
func unchanged(path string, data []byte) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return xxhash.Sum64(existing) == xxhash.Sum64(data)
}
