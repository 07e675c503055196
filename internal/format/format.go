// Package format holds the classifiers that decide whether a probed response
// body is one of the known metrics surfaces: the legacy dashboard page or
// metrics exposition text.
package format

import (
	"regexp"
	"strings"
)

// dashboardMarker is the script reference every legacy dashboard page embeds.
const dashboardMarker = `src="graphmetrics/js"`

// HasDashboardMarker reports whether body looks like a legacy metrics
// dashboard page. This is a substring sniff, not an HTML parse: any body
// embedding the marker is accepted.
func HasDashboardMarker(body string) bool {
	return strings.Contains(body, dashboardMarker)
}

// labelBlock matches a brace-delimited label block non-greedily: first "{"
// to first "}". Only the first match on a line is stripped; lines with
// multiple brace groups or a literal "}" inside a label value are therefore
// misclassified. Downstream consumers depend on this permissiveness, so it
// stays as is.
var labelBlock = regexp.MustCompile(`\{.*?\}`)

// IsExpositionFormat reports whether body is valid metrics exposition text.
// Each line must either be a comment (leading '#') or, once its label block
// is stripped, consist of exactly two tokens separated by a single space.
// An empty body is vacuously valid.
func IsExpositionFormat(body string) bool {
	lines := strings.Split(body, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for _, line := range lines {
		if !validExpositionLine(line) {
			return false
		}
	}
	return true
}

func validExpositionLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	if loc := labelBlock.FindStringIndex(line); loc != nil {
		line = line[:loc[0]] + line[loc[1]:]
	}
	parts := strings.Split(line, " ")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
