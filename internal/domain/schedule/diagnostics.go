package schedule

import "fmt"

// DiagnosticKind classifies a recoverable problem found during a pass.
type DiagnosticKind string

const (
	DiagMalformedRow      DiagnosticKind = "malformed_row"
	DiagDuplicateRoll     DiagnosticKind = "duplicate_roll"
	DiagNonNumericRoll    DiagnosticKind = "non_numeric_roll"
	DiagInvalidRollPart   DiagnosticKind = "invalid_roll_part"
	DiagUnmatchedRollPart DiagnosticKind = "unmatched_roll_part"
	DiagUnmatchedName     DiagnosticKind = "unmatched_name"
	DiagUnmatchedSubject  DiagnosticKind = "unmatched_subject"
)

// Source names the input a diagnostic came from.
type Source string

const (
	SourceRoster    Source = "roster"
	SourceTheory    Source = "theory"
	SourcePractical Source = "practical"
	// SourceArtifact: the existing JSON artifact; Line is the 1-based array index.
	SourceArtifact Source = "artifact"
)

// Diagnostic is one skipped row, part or cell.
// Line is the 1-based index among the non-blank lines of the source.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Source Source         `json:"source"`
	Line   int            `json:"line"`
	Value  string         `json:"value,omitempty"`
	Detail string         `json:"detail"`
}

// Diagnostics accumulates problems instead of printing them inline.
// The zero value is ready to use.
type Diagnostics struct {
	items []Diagnostic
}

// Add records a diagnostic.
func (d *Diagnostics) Add(kind DiagnosticKind, src Source, line int, value, format string, args ...any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Kind:   kind,
		Source: src,
		Line:   line,
		Value:  value,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Items returns all diagnostics in the order they were recorded.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Count returns how many diagnostics of the given kind were recorded.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, it := range d.Items() {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// Values returns the distinct values of the given kind in first-seen order.
// Used to surface unmatched names and roll parts explicitly.
func (d *Diagnostics) Values(kind DiagnosticKind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range d.Items() {
		if it.Kind != kind {
			continue
		}
		if _, ok := seen[it.Value]; ok {
			continue
		}
		seen[it.Value] = struct{}{}
		out = append(out, it.Value)
	}
	return out
}

// Summary counts diagnostics per kind.
func (d *Diagnostics) Summary() map[DiagnosticKind]int {
	out := make(map[DiagnosticKind]int)
	for _, it := range d.Items() {
		out[it.Kind]++
	}
	return out
}
