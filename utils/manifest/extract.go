package manifest

import (
	"bufio"
	"os"
	"strings"

	"wfmake/utils/config"
)

// universalMarker opens a capture region shared by every target.
const universalMarker = "./*"

// extractText reads the capture region for startMarker from an external
// reference file: the lines between a line equal to the marker (or the
// universal marker) and the next line beginning with a run of four
// dashes. A missing file or marker yields the empty string; external
// references are optional by contract, so neither is an error.
func extractText(path, startMarker string) string {
	f, err := os.Open(path)
	if err != nil {
		config.DebugLog("external reference %s unreadable: %v", path, err)
		return ""
	}
	defer f.Close()

	var builder strings.Builder
	capturing := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == startMarker || trimmed == universalMarker:
			capturing = true
		case capturing && strings.HasPrefix(line, "----"):
			return builder.String()
		case capturing:
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
	if !capturing {
		config.DebugLog("external reference %s has no region for %q", path, startMarker)
	}
	return builder.String()
}
