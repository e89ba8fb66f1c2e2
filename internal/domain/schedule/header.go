package schedule

import (
	"regexp"
	"strings"
)

const (
	headerSeparator = " - "
	professorPrefix = "Prof. "
)

var (
	panelPattern       = regexp.MustCompile(`(?i)(Panel\s*\d+|Batch\s*\d+)`)
	professorPattern   = regexp.MustCompile(`(?i)Prof\.?\s*(.+)`)
	professorSeparator = regexp.MustCompile(`(?i)Prof\.?`)
)

// PanelHeader is the decoded text of a practical grid column header,
// e.g. "Panel 1 Prof. Vishakha - Python".
type PanelHeader struct {
	Subject   string
	Panel     string
	Professor string
}

// ParsePanelHeader splits a column header into panel, professor and subject.
// Everything after the first " - " is the subject; the text before it holds
// the panel ("Panel N" or "Batch N") and an optional "Prof" marker followed
// by the professor's name. A header without the separator is all subject.
func ParsePanelHeader(header string) PanelHeader {
	clean := CollapseSpaces(header)
	parts := strings.Split(clean, headerSeparator)

	if len(parts) < 2 {
		return PanelHeader{
			Subject: strings.TrimSpace(header),
			Panel:   UnknownPanel,
		}
	}

	prefix := parts[0]
	h := PanelHeader{
		Subject: strings.TrimSpace(strings.Join(parts[1:], headerSeparator)),
		Panel:   UnknownPanel,
	}

	if m := panelPattern.FindString(prefix); m != "" {
		h.Panel = m
	}

	if professorPattern.MatchString(prefix) {
		if pieces := professorSeparator.Split(prefix, -1); len(pieces) > 1 {
			h.Professor = professorPrefix + strings.TrimSpace(pieces[1])
		}
	}

	return h
}

// LooselyMatches reports whether two subjects are equal or one contains the other.
func LooselyMatches(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
