package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wfmake/utils/config"
	"wfmake/utils/workflow"
)

// DefaultExtension is appended to target filenames declared without one.
const DefaultExtension = ".json"

// ParseFile reads and parses a configuration file. External references
// in values are resolved relative to the file's directory.
func ParseFile(path string) (*Configurations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Parse(string(data), filepath.Dir(path))
}

// Parse parses configuration text. baseDir anchors external file
// references (values of the form @relative/path).
//
// The only fatal parse condition is a target filename containing
// whitespace; every other oddity degrades or is ignored.
func Parse(text, baseDir string) (*Configurations, error) {
	c := &Configurations{
		params:    make(map[string]map[string]workflow.Value),
		wildcards: make(map[string][]WildcardRule),
		globals:   make(map[string]string),
	}

	var (
		target        Target
		pendingParams map[string]workflow.Value
		pendingRules  []WildcardRule
	)

	commit := func() {
		if target.Name == "" || (len(pendingParams) == 0 && len(pendingRules) == 0) {
			return
		}
		if _, seen := c.params[target.Name]; seen {
			// redeclared target: one output file, the later section wins
			for i := range c.targets {
				if c.targets[i].Name == target.Name {
					c.targets[i] = target
					break
				}
			}
		} else {
			c.targets = append(c.targets, target)
		}
		c.params[target.Name] = pendingParams
		c.wildcards[target.Name] = pendingRules
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			// comment

		case strings.HasPrefix(line, "@"):
			key, raw := splitKeyValue(line[1:])
			c.globals[key] = resolveValue(raw, baseDir, target.Name).Text()

		case strings.HasPrefix(line, "./"):
			commit()
			filename, err := readFilename(line)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(filename, filepath.Ext(filename))
			if filepath.Ext(filename) == "" {
				filename += DefaultExtension
			}
			target = Target{Name: name, Filename: filename}
			pendingParams = make(map[string]workflow.Value)
			pendingRules = nil

		default:
			key, raw := splitKeyValue(line)
			if strings.HasPrefix(key, "NODE.") {
				if alias, ok := c.globals[key]; ok {
					key = alias
				}
			}
			value := resolveValue(raw, baseDir, target.Name)
			if pendingParams == nil {
				config.DebugLog("parameter %q declared before any target, ignoring", key)
				continue
			}
			if prefix, suffix, ok := strings.Cut(key, "*"); ok {
				pendingRules = append(pendingRules, WildcardRule{Prefix: prefix, Suffix: suffix, Value: value})
			} else {
				pendingParams[key] = value
			}
		}
	}
	commit()

	return c, nil
}

// readFilename extracts a target filename from a "./name" line,
// stripping leading periods and slashes. Filenames with embedded
// spaces are a user error worth stopping the whole run for.
func readFilename(line string) (string, error) {
	filename := strings.TrimLeft(strings.TrimSpace(line), "./")
	if strings.Contains(filename, " ") {
		return "", fmt.Errorf("filename cannot contain spaces: %s", filename)
	}
	return filename, nil
}

// splitKeyValue parses a "key: value" line. Lines without a colon
// become a key with an empty value.
func splitKeyValue(line string) (key, value string) {
	key, value, _ = strings.Cut(line, ":")
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

// resolveValue turns a raw value token into a typed value. Quoted
// literals stay strings with one quote layer stripped. @path tokens
// load their text from an external capture file. Everything else is
// coerced (int, then float, then string).
func resolveValue(raw, baseDir, targetName string) workflow.Value {
	if strings.HasPrefix(raw, "'") {
		return workflow.StringValue(strings.Trim(raw, "'"))
	}
	if strings.HasPrefix(raw, "@") {
		text := extractText(filepath.Join(baseDir, raw[1:]), "./"+targetName)
		return workflow.Coerce(strings.TrimSpace(text))
	}
	return workflow.Coerce(raw)
}
