package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

var ordinalPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// StripOrdinal removes a leading "N." or "N)" marker.
func StripOrdinal(line string) string {
	return ordinalPrefix.ReplaceAllString(line, "")
}

// ParseSubjects turns stored schedule text into subjects in lesson order.
func ParseSubjects(text string) []string {
	var subjects []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		subjects = append(subjects, strings.TrimSpace(StripOrdinal(line)))
	}
	return subjects
}

// NormalizeLessons renumbers operator input from 1, one lesson per line.
//
// A single comma-free line is split on whitespace, so "Math Art" becomes two
// lessons. The same rule splits "Algebra II" in two; there is no way to tell
// the cases apart from the text alone.
func NormalizeLessons(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 1 && !strings.Contains(lines[0], ",") {
		if words := strings.Fields(StripOrdinal(lines[0])); len(words) > 1 {
			lines = words
		}
	}

	numbered := make([]string, 0, len(lines))
	for _, lesson := range lines {
		lesson = strings.TrimSpace(StripOrdinal(lesson))
		if lesson == "" {
			continue
		}
		numbered = append(numbered, fmt.Sprintf("%d. %s", len(numbered)+1, lesson))
	}
	return strings.Join(numbered, "\n")
}
